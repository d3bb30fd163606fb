package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/panelcentral/backoffice/internal/platform/cache"
)

type fakeFixtureProvider struct {
	mu       sync.Mutex
	fixtures []Fixture
	err      error
	calls    int
}

func (f *fakeFixtureProvider) ListFixtures(_ context.Context, _ FixtureQuery) ([]Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.fixtures, f.err
}

func TestSportsServiceFixtures(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{fixtures: []Fixture{
		{ID: 100, Sport: "football", HomeTeam: "América", AwayTeam: "Chivas"},
	}}
	svc := NewSportsService(provider, cache.NewStore(time.Minute, 20))

	fixtures, err := svc.Fixtures(context.Background(), FixtureQuery{Date: "2026-08-28"})
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	if len(fixtures) != 1 || fixtures[0].ID != 100 {
		t.Fatalf("unexpected fixtures: %+v", fixtures)
	}

	// Same query hits the cache.
	if _, err := svc.Fixtures(context.Background(), FixtureQuery{Date: "2026-08-28"}); err != nil {
		t.Fatalf("cached fixtures: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}

	// A different sport misses.
	if _, err := svc.Fixtures(context.Background(), FixtureQuery{Sport: "basketball", Date: "2026-08-28"}); err != nil {
		t.Fatalf("basketball fixtures: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected second provider call, got %d", provider.calls)
	}
}

func TestSportsServiceFixturesValidation(t *testing.T) {
	t.Parallel()

	svc := NewSportsService(&fakeFixtureProvider{}, cache.NewStore(time.Minute, 20))

	if _, err := svc.Fixtures(context.Background(), FixtureQuery{Sport: "curling"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unsupported sport, got %v", err)
	}
	if _, err := svc.Fixtures(context.Background(), FixtureQuery{Date: "28/08/2026"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed date, got %v", err)
	}
}

func TestSportsServiceFixturesProviderDown(t *testing.T) {
	t.Parallel()

	provider := &fakeFixtureProvider{err: errors.New("upstream timeout")}
	svc := NewSportsService(provider, cache.NewStore(time.Minute, 20))

	if _, err := svc.Fixtures(context.Background(), FixtureQuery{}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
