package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"

	"github.com/panelcentral/backoffice/external/apisports"
	"github.com/panelcentral/backoffice/external/groq"
	"github.com/panelcentral/backoffice/external/newsapi"
	"github.com/panelcentral/backoffice/internal/config"
	"github.com/panelcentral/backoffice/internal/infrastructure/auth"
	"github.com/panelcentral/backoffice/internal/infrastructure/repository/postgres"
	"github.com/panelcentral/backoffice/internal/interfaces/httpapi"
	"github.com/panelcentral/backoffice/internal/platform/cache"
	"github.com/panelcentral/backoffice/internal/platform/logging"
	"github.com/panelcentral/backoffice/internal/platform/resilience"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	poolRepo := postgres.NewPoolRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	taskboardRepo := postgres.NewTaskboardRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	tokenManager, err := auth.NewTokenManager(auth.TokenManagerConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		TokenTTL: cfg.JWTTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	sportsClient := apisports.NewClient(apisports.ClientConfig{
		Key:        cfg.APISportsKey,
		Timeout:    cfg.APISportsTimeout,
		MaxRetries: cfg.APISportsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APISportsCircuitEnabled,
			FailureThreshold: cfg.APISportsCircuitFailureCount,
			OpenTimeout:      cfg.APISportsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APISportsCircuitHalfOpenMaxReq,
		},
	})
	newsClient := newsapi.NewClient(newsapi.ClientConfig{
		BaseURL: cfg.NewsAPIBaseURL,
		Key:     cfg.NewsAPIKey,
		Timeout: cfg.NewsAPITimeout,
		Logger:  logger,
	})
	groqClient := groq.NewClient(groq.ClientConfig{
		BaseURL: cfg.GroqBaseURL,
		Key:     cfg.GroqKey,
		Model:   cfg.GroqModel,
		Timeout: cfg.GroqTimeout,
		Logger:  logger,
	})

	// A nil store turns the read-through caches into pass-throughs.
	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL, cfg.CacheCapacity)
	}

	authSvc := usecase.NewAuthService(userRepo, tokenManager, cfg.BcryptCost)
	poolSvc := usecase.NewPoolService(poolRepo, sportsClient, cfg.PoolRefreshWorkers, cfg.PoolScoreTimeout)
	contentSvc := usecase.NewContentService(contentRepo, groqClient)
	newsSvc := usecase.NewNewsService(newsClient, store)
	sportsSvc := usecase.NewSportsService(sportsClient, store)
	taskboardSvc := usecase.NewTaskboardService(taskboardRepo)
	reportSvc := usecase.NewReportService(reportRepo)

	handler := httpapi.NewHandler(
		authSvc,
		poolSvc,
		contentSvc,
		newsSvc,
		sportsSvc,
		taskboardSvc,
		reportSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, tokenManager, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
