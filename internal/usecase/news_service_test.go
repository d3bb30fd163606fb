package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/news"
	"github.com/panelcentral/backoffice/internal/platform/cache"
)

type fakeNewsProvider struct {
	mu       sync.Mutex
	byDomain []news.Article
	byQuery  []news.Article
	err      error
	calls    int
}

func (f *fakeNewsProvider) Search(_ context.Context, req NewsSearch) ([]news.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if req.Domains != "" {
		return f.byDomain, nil
	}
	return f.byQuery, nil
}

func freshArticle(title, summary, source string) news.Article {
	return news.Article{
		Title:       title,
		Summary:     summary,
		Source:      source,
		PublishedAt: time.Now().Add(-time.Hour),
	}
}

func TestNewsServiceSearchFiltersAndTrims(t *testing.T) {
	t.Parallel()

	provider := &fakeNewsProvider{byDomain: []news.Article{
		freshArticle("Reforma fiscal avanza - El Universal", strings.Repeat("á", 300), "El Universal"),
		freshArticle("[Removed]", "gone", "X"),
		freshArticle("Sin resumen", "", "X"),
		{Title: "Muy viejo", Summary: "texto", Source: "X", PublishedAt: time.Now().Add(-72 * time.Hour)},
		{Title: "Sin fecha", Summary: "texto", Source: "X"},
	}}
	svc := NewNewsService(provider, cache.NewStore(15*time.Minute, 50))

	articles, err := svc.Search(context.Background(), news.Query{Scope: news.ScopeMX})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article after filtering, got %d", len(articles))
	}

	got := articles[0]
	if got.Title != "Reforma fiscal avanza" {
		t.Fatalf("expected source suffix stripped, got %q", got.Title)
	}
	if n := len([]rune(got.Summary)); n != newsSummaryLimit {
		t.Fatalf("expected summary truncated to %d runes, got %d", newsSummaryLimit, n)
	}
}

func TestNewsServiceSearchCaches(t *testing.T) {
	t.Parallel()

	provider := &fakeNewsProvider{byDomain: []news.Article{
		freshArticle("Nota uno", "resumen", "Milenio"),
	}}
	svc := NewNewsService(provider, cache.NewStore(15*time.Minute, 50))

	q := news.Query{Scope: news.ScopeMX, Category: "economia"}
	if _, err := svc.Search(context.Background(), q); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := svc.Search(context.Background(), q); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one upstream call for repeated query, got %d", provider.calls)
	}

	// A different scope is a different cache entry.
	if _, err := svc.Search(context.Background(), news.Query{Scope: news.ScopeIntl, Category: "economia"}); err != nil {
		t.Fatalf("intl search: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected cache miss on new scope, got %d calls", provider.calls)
	}
}

func TestNewsServiceSearchBothMergesCapped(t *testing.T) {
	t.Parallel()

	many := func(prefix string, n int) []news.Article {
		out := make([]news.Article, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, freshArticle(prefix, "resumen largo", "Fuente"))
		}
		return out
	}
	provider := &fakeNewsProvider{
		byQuery:  many("internacional", 8),
		byDomain: many("nacional", 8),
	}
	svc := NewNewsService(provider, cache.NewStore(15*time.Minute, 50))

	articles, err := svc.Search(context.Background(), news.Query{Scope: news.ScopeBoth})
	if err != nil {
		t.Fatalf("search both: %v", err)
	}
	if len(articles) != 8 {
		t.Fatalf("expected 4+4 merged articles, got %d", len(articles))
	}
	if provider.calls != 2 {
		t.Fatalf("expected two upstream calls, got %d", provider.calls)
	}
}

func TestNewsServiceSearchValidation(t *testing.T) {
	t.Parallel()

	svc := NewNewsService(&fakeNewsProvider{}, cache.NewStore(time.Minute, 10))

	if _, err := svc.Search(context.Background(), news.Query{Scope: "galaxy"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown scope, got %v", err)
	}
	if _, err := svc.Search(context.Background(), news.Query{Category: "astrologia"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown category, got %v", err)
	}
}

func TestNewsServiceSearchProviderDown(t *testing.T) {
	t.Parallel()

	provider := &fakeNewsProvider{err: errors.New("rate limited")}
	svc := NewNewsService(provider, cache.NewStore(time.Minute, 10))

	_, err := svc.Search(context.Background(), news.Query{Scope: news.ScopeMX})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	// Failures are not cached; the next call hits upstream again.
	_, _ = svc.Search(context.Background(), news.Query{Scope: news.ScopeMX})
	if provider.calls != 2 {
		t.Fatalf("expected provider retried after failure, calls=%d", provider.calls)
	}
}
