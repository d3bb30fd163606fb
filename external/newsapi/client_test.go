package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/panelcentral/backoffice/internal/platform/logging"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Key:     "test-key",
		Logger:  logging.NewNop(),
	})
}

func TestSearchMapsArticles(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("language") != "es" || q.Get("sortBy") != "publishedAt" {
			t.Errorf("unexpected query params: %v", q)
		}
		if q.Get("apiKey") != "test-key" {
			t.Errorf("missing api key param")
		}
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{
			"source":{"name":"El Financiero"},
			"title":"Sube la inflación - El Financiero",
			"description":"La inflación anual llegó a 4.2%",
			"url":"https://example.com/nota",
			"urlToImage":"https://example.com/img.jpg",
			"publishedAt":"2025-03-10T08:00:00Z"
		}]}`))
	})

	articles, err := client.Search(context.Background(), usecase.NewsSearch{
		Query:    "inflación",
		PageSize: 15,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}

	a := articles[0]
	if a.Source != "El Financiero" || a.URL != "https://example.com/nota" {
		t.Fatalf("unexpected article: %+v", a)
	}
	if a.PublishedAt.IsZero() {
		t.Fatal("expected publishedAt to be parsed")
	}
}

func TestSearchRateLimited(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":"error","code":"rateLimited","message":"too many requests"}`))
	})

	_, err := client.Search(context.Background(), usecase.NewsSearch{Query: "x", PageSize: 10})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSearchProviderError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
	})

	_, err := client.Search(context.Background(), usecase.NewsSearch{Query: "x", PageSize: 10})
	if err == nil {
		t.Fatal("expected error for provider error response")
	}
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("invalid key is not a transient failure: %v", err)
	}
}
