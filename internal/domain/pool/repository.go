package pool

import "context"

// MatchResult carries a score update applied during a refresh pass.
type MatchResult struct {
	MatchID   int64
	HomeScore *int
	AwayScore *int
	Status    MatchStatus
}

type Repository interface {
	// CreatePool persists the pool, its match slate and the creator's
	// participant row (taken from p.CreatedBy) in a single transaction.
	CreatePool(ctx context.Context, p Pool, matches []Match) (Pool, error)
	GetPool(ctx context.Context, id int64) (Pool, bool, error)
	ListPools(ctx context.Context) ([]Summary, error)
	UpdatePoolStatus(ctx context.Context, id int64, status Status) error
	DeletePool(ctx context.Context, id int64) error

	ListMatches(ctx context.Context, poolID int64) ([]Match, error)
	ApplyMatchResults(ctx context.Context, results []MatchResult) error

	AddParticipant(ctx context.Context, poolID, userID int64) error
	IsParticipant(ctx context.Context, poolID, userID int64) (bool, error)
	ListParticipants(ctx context.Context, poolID int64) ([]Participant, error)

	UpsertPredictions(ctx context.Context, predictions []Prediction) error
	ListPredictions(ctx context.Context, poolID int64) ([]Prediction, error)
	ListUserPredictions(ctx context.Context, poolID, userID int64) ([]Prediction, error)

	// ApplyScoring persists a full rescore: prediction correctness flags and
	// participant totals, atomically.
	ApplyScoring(ctx context.Context, poolID int64, results []Prediction, totals map[int64]int) error
	Standings(ctx context.Context, poolID int64) ([]StandingRow, error)
}
