package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/pool"
	"github.com/panelcentral/backoffice/internal/platform/cache"
)

// Fixture is an upcoming or live game offered for pool building.
type Fixture struct {
	ID        int64
	Sport     string
	League    string
	Country   string
	HomeTeam  string
	AwayTeam  string
	HomeLogo  string
	AwayLogo  string
	HomeScore *int
	AwayScore *int
	KickoffAt time.Time
	Status    pool.MatchStatus
}

type FixtureQuery struct {
	Sport  string
	Date   string
	League string
}

// FixtureProvider lists fixtures from the sports data API.
type FixtureProvider interface {
	ListFixtures(ctx context.Context, q FixtureQuery) ([]Fixture, error)
}

var supportedSports = map[string]struct{}{
	"football":          {},
	"basketball":        {},
	"baseball":          {},
	"american-football": {},
	"mma":               {},
	"formula-1":         {},
}

func SupportedSport(sport string) bool {
	_, ok := supportedSports[sport]
	return ok
}

type SportsService struct {
	fixtures FixtureProvider
	cache    *cache.Store
}

func NewSportsService(fixtures FixtureProvider, store *cache.Store) *SportsService {
	return &SportsService{fixtures: fixtures, cache: store}
}

// Fixtures lists games for a sport and date, cached briefly so board clients
// polling the picker do not hammer the provider.
func (s *SportsService) Fixtures(ctx context.Context, q FixtureQuery) ([]Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "SportsService.Fixtures")
	defer span.End()

	q.Sport = strings.ToLower(strings.TrimSpace(q.Sport))
	q.Date = strings.TrimSpace(q.Date)
	if q.Sport == "" {
		q.Sport = "football"
	}
	if !SupportedSport(q.Sport) {
		return nil, fmt.Errorf("%w: unsupported sport %q", ErrInvalidInput, q.Sport)
	}
	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	key := fmt.Sprintf("fixtures:%s:%s:%s", q.Sport, q.Date, q.League)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		fixtures, err := s.fixtures.ListFixtures(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return fixtures, nil
	})
	if err != nil {
		return nil, err
	}

	fixtures, ok := value.([]Fixture)
	if !ok {
		return nil, fmt.Errorf("unexpected cache payload for %s", key)
	}
	return fixtures, nil
}
