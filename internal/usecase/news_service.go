package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	concpool "github.com/sourcegraph/conc/pool"

	"github.com/panelcentral/backoffice/internal/domain/news"
	"github.com/panelcentral/backoffice/internal/platform/cache"
)

const (
	newsMaxArticleAge = 48 * time.Hour
	newsSummaryLimit  = 200
)

// mxDomains is the fixed allowlist of Mexican outlets queried for the mx
// and both scopes.
const mxDomains = "elfinanciero.com.mx,eluniversal.com.mx,milenio.com,proceso.com.mx,jornada.com.mx," +
	"excelsior.com.mx,reforma.com,animalpolitico.com,sdpnoticias.com,forbes.com.mx,expansion.mx,eleconomista.com.mx"

// categoryQueries expands a category slug into the upstream search phrase.
var categoryQueries = map[string]string{
	"politica":        "política OR gobierno OR elecciones OR congreso OR presidente",
	"economia":        "economía OR mercados OR finanzas OR negocios OR inflación",
	"tecnologia":      "tecnología OR inteligencia artificial OR startup OR digital",
	"deportes":        "deportes OR fútbol OR NBA OR olimpiadas OR F1",
	"entretenimiento": "entretenimiento OR cine OR música OR celebridades OR serie",
	"guerra":          "guerra OR conflicto OR militar OR Ucrania OR Gaza OR defensa",
	"ciencia":         "ciencia OR salud OR medicina OR investigación OR espacio",
}

// titleSourceSuffix strips the trailing "- Outlet Name" most wire titles carry.
var titleSourceSuffix = regexp.MustCompile(`\s*-\s*[^-]*$`)

// NewsSearch is one upstream query. Either Query or Domains (or both) is set.
type NewsSearch struct {
	Query    string
	Domains  string
	PageSize int
}

// NewsProvider runs searches against the upstream news API.
type NewsProvider interface {
	Search(ctx context.Context, req NewsSearch) ([]news.Article, error)
}

type NewsService struct {
	provider NewsProvider
	cache    *cache.Store
	now      func() time.Time
}

func NewNewsService(provider NewsProvider, store *cache.Store) *NewsService {
	return &NewsService{
		provider: provider,
		cache:    store,
		now:      time.Now,
	}
}

// Search resolves a query through the cache, fanning out to the upstream
// provider on a miss. Both-scope queries fetch the international and Mexican
// feeds in parallel and interleave the freshest of each.
func (s *NewsService) Search(ctx context.Context, q news.Query) ([]news.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "NewsService.Search")
	defer span.End()

	q.Term = strings.TrimSpace(q.Term)
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Scope == "" {
		q.Scope = news.ScopeMX
	}
	switch q.Scope {
	case news.ScopeMX, news.ScopeIntl, news.ScopeBoth:
	default:
		return nil, fmt.Errorf("%w: unknown news scope %q", ErrInvalidInput, q.Scope)
	}
	if q.Category != "" {
		if _, ok := categoryQueries[q.Category]; !ok {
			return nil, fmt.Errorf("%w: unknown news category %q", ErrInvalidInput, q.Category)
		}
	}

	key := fmt.Sprintf("news:%s:%s:%s", q.Scope, q.Term, q.Category)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.fetch(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	articles, ok := value.([]news.Article)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload for %s", key)
	}
	return articles, nil
}

func (s *NewsService) fetch(ctx context.Context, q news.Query) ([]news.Article, error) {
	catQuery := categoryQueries[q.Category]

	switch q.Scope {
	case news.ScopeBoth:
		return s.fetchBoth(ctx, catQuery)

	case news.ScopeIntl:
		query := catQuery
		if query == "" {
			query = q.Term
		}
		if query == "" {
			query = "mundial OR internacional OR economía OR política OR tecnología"
		}
		raw, err := s.provider.Search(ctx, NewsSearch{Query: query, PageSize: 15})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return s.normalize(raw, q.Category), nil

	default:
		query := catQuery
		if query == "" {
			query = q.Term
		}
		raw, err := s.provider.Search(ctx, NewsSearch{Query: query, Domains: mxDomains, PageSize: 15})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return s.normalize(raw, q.Category), nil
	}
}

func (s *NewsService) fetchBoth(ctx context.Context, catQuery string) ([]news.Article, error) {
	intlQuery := catQuery
	if intlQuery == "" {
		intlQuery = "mundial OR internacional"
	}

	var intl, mx []news.Article
	group := concpool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		raw, err := s.provider.Search(ctx, NewsSearch{Query: intlQuery, PageSize: 10})
		if err != nil {
			return err
		}
		intl = raw
		return nil
	})
	group.Go(func(ctx context.Context) error {
		raw, err := s.provider.Search(ctx, NewsSearch{Query: catQuery, Domains: mxDomains, PageSize: 10})
		if err != nil {
			return err
		}
		mx = raw
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	merged := append(capArticles(s.filter(intl), 4), capArticles(s.filter(mx), 4)...)
	return s.finalize(merged, ""), nil
}

func (s *NewsService) normalize(raw []news.Article, category string) []news.Article {
	return s.finalize(s.filter(raw), category)
}

// filter drops articles with redacted fields or older than 48 hours.
func (s *NewsService) filter(raw []news.Article) []news.Article {
	cutoff := s.now().Add(-newsMaxArticleAge)

	kept := make([]news.Article, 0, len(raw))
	for _, a := range raw {
		if a.Title == "" || a.Title == "[Removed]" || a.Summary == "" || a.Summary == "[Removed]" {
			continue
		}
		if a.PublishedAt.IsZero() || a.PublishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func (s *NewsService) finalize(articles []news.Article, category string) []news.Article {
	out := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		a.Title = titleSourceSuffix.ReplaceAllString(a.Title, "")
		a.Summary = truncateRunes(a.Summary, newsSummaryLimit)
		if a.Source == "" {
			a.Source = "Fuente desconocida"
		}
		if category != "" {
			a.Category = category
		}
		out = append(out, a)
	}
	return out
}

func capArticles(articles []news.Article, limit int) []news.Article {
	if len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
