package apisports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/panelcentral/backoffice/internal/platform/logging"
	"github.com/panelcentral/backoffice/internal/platform/resilience"
	"github.com/panelcentral/backoffice/internal/usecase"
)

const mexicoCityTimezone = "America/Mexico_City"

var errAPISportsTransient = crerr.New("api-sports transient failure")

// sportEndpoint describes one API-Sports vertical. Each sport lives on its
// own host and exposes fixtures under a sport-specific path and shape.
type sportEndpoint struct {
	baseURL      string
	fixturesPath string
	lookupParam  string
}

var sportEndpoints = map[string]sportEndpoint{
	"football":          {baseURL: "https://v3.football.api-sports.io", fixturesPath: "/fixtures", lookupParam: "id"},
	"basketball":        {baseURL: "https://v1.basketball.api-sports.io", fixturesPath: "/games", lookupParam: "id"},
	"baseball":          {baseURL: "https://v1.baseball.api-sports.io", fixturesPath: "/games", lookupParam: "id"},
	"american-football": {baseURL: "https://v1.american-football.api-sports.io", fixturesPath: "/games", lookupParam: "id"},
	"mma":               {baseURL: "https://v1.mma.api-sports.io", fixturesPath: "/fights", lookupParam: "id"},
	"formula-1":         {baseURL: "https://v1.formula-1.api-sports.io", fixturesPath: "/races", lookupParam: "id"},
}

type ClientConfig struct {
	HTTPClient     *http.Client
	Key            string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig

	// BaseURLOverrides replaces the per-sport hosts, used by tests.
	BaseURLOverrides map[string]string
}

type Client struct {
	httpClient *http.Client
	key        string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
	overrides  map[string]string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	var breaker *resilience.CircuitBreaker
	if cfg.CircuitBreaker.Enabled {
		breaker = resilience.NewCircuitBreaker(resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker))
	}

	return &Client{
		httpClient: httpClient,
		key:        strings.TrimSpace(cfg.Key),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    breaker,
		overrides:  cfg.BaseURLOverrides,
	}
}

func (c *Client) endpoint(sport string) sportEndpoint {
	cfg, ok := sportEndpoints[sport]
	if !ok {
		cfg = sportEndpoints["football"]
	}
	if override, ok := c.overrides[sport]; ok && override != "" {
		cfg.baseURL = strings.TrimRight(override, "/")
	}
	return cfg
}

// ListFixtures fetches one day of fixtures for a sport, normalized from the
// vertical-specific response shapes into a single Fixture form.
func (c *Client) ListFixtures(ctx context.Context, q usecase.FixtureQuery) ([]usecase.Fixture, error) {
	sport := q.Sport
	if sport == "" {
		sport = "football"
	}
	cfg := c.endpoint(sport)

	query := url.Values{}
	query.Set("date", q.Date)
	query.Set("timezone", mexicoCityTimezone)
	if q.League != "" {
		query.Set("league", q.League)
	}

	var envelope responseEnvelope
	if err := c.doJSON(ctx, cfg.baseURL+cfg.fixturesPath, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures sport=%s date=%s: %w", sport, q.Date, err)
	}

	out := make([]usecase.Fixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		fixture, ok := parseFixture(sport, item)
		if !ok {
			continue
		}
		out = append(out, fixture)
	}
	return out, nil
}

// FetchScore looks up the current score and state of one fixture. A fixture
// the provider no longer knows about comes back with Found unset.
func (c *Client) FetchScore(ctx context.Context, sport string, fixtureID int64) (usecase.MatchScore, error) {
	if fixtureID <= 0 {
		return usecase.MatchScore{}, fmt.Errorf("fixture id must be greater than zero")
	}
	cfg := c.endpoint(sport)

	query := url.Values{}
	query.Set(cfg.lookupParam, strconv.FormatInt(fixtureID, 10))

	var envelope responseEnvelope
	if err := c.doJSON(ctx, cfg.baseURL+cfg.fixturesPath, query, &envelope); err != nil {
		return usecase.MatchScore{}, fmt.Errorf("fetch score sport=%s fixture_id=%d: %w", sport, fixtureID, err)
	}
	if len(envelope.Response) == 0 {
		return usecase.MatchScore{}, nil
	}

	return parseScore(sport, envelope.Response[0]), nil
}

type responseEnvelope struct {
	Response []map[string]any `json:"response"`
}

func (c *Client) doJSON(ctx context.Context, fullURL string, query url.Values, target any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-sports circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.breaker != nil {
			if reqErr != nil && crerr.Is(reqErr, errAPISportsTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if crerr.Is(err, errAPISportsTransient) {
			return fmt.Errorf("%w: %s", usecase.ErrDependencyUnavailable, err)
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.key)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errAPISportsTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errAPISportsTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errAPISportsTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-sports request failed", "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
