package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/panelcentral/backoffice/internal/platform/logging"
	"github.com/panelcentral/backoffice/internal/usecase"
)

type Handler struct {
	authService      *usecase.AuthService
	poolService      *usecase.PoolService
	contentService   *usecase.ContentService
	newsService      *usecase.NewsService
	sportsService    *usecase.SportsService
	taskboardService *usecase.TaskboardService
	reportService    *usecase.ReportService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	authService *usecase.AuthService,
	poolService *usecase.PoolService,
	contentService *usecase.ContentService,
	newsService *usecase.NewsService,
	sportsService *usecase.SportsService,
	taskboardService *usecase.TaskboardService,
	reportService *usecase.ReportService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:      authService,
		poolService:      poolService,
		contentService:   contentService,
		newsService:      newsService,
		sportsService:    sportsService,
		taskboardService: taskboardService,
		reportService:    reportService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
