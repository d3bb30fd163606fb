package newsapi

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

	"github.com/panelcentral/backoffice/internal/domain/news"
	"github.com/panelcentral/backoffice/internal/platform/logging"
	"github.com/panelcentral/backoffice/internal/usecase"
)

const defaultBaseURL = "https://newsapi.org/v2"

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Key        string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client searches the NewsAPI "everything" endpoint for Spanish-language
// articles, newest first.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	logger     *logging.Logger
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

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		key:        strings.TrimSpace(cfg.Key),
		logger:     logger,
	}
}

type everythingEnvelope struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (c *Client) Search(ctx context.Context, req usecase.NewsSearch) ([]news.Article, error) {
	values := url.Values{}
	values.Set("language", "es")
	values.Set("sortBy", "publishedAt")
	values.Set("pageSize", strconv.Itoa(req.PageSize))
	if req.Query != "" {
		values.Set("q", req.Query)
	}
	if req.Domains != "" {
		values.Set("domains", req.Domains)
	}
	values.Set("apiKey", c.key)

	fullURL := c.baseURL + "/everything?" + values.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: send news request: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read news response: %v", usecase.ErrDependencyUnavailable, err)
	}

	var envelope everythingEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode news payload: %w", err)
	}
	if envelope.Status == "error" {
		c.logger.WarnContext(ctx, "newsapi returned error", "code", envelope.Code, "message", envelope.Message)
		if envelope.Code == "rateLimited" {
			return nil, fmt.Errorf("%w: news provider request quota exhausted", usecase.ErrDependencyUnavailable)
		}
		return nil, fmt.Errorf("news provider: %s", firstNonEmpty(envelope.Message, envelope.Code))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: news provider status=%d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	out := make([]news.Article, 0, len(envelope.Articles))
	for _, item := range envelope.Articles {
		article := news.Article{
			Source:   item.Source.Name,
			Title:    item.Title,
			Summary:  item.Description,
			URL:      item.URL,
			ImageURL: item.URLToImage,
		}
		if parsed, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			article.PublishedAt = parsed.UTC()
		}
		out = append(out, article)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
