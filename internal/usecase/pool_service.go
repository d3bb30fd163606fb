package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/panelcentral/backoffice/internal/domain/pool"
	"github.com/panelcentral/backoffice/internal/domain/user"
)

const (
	defaultRefreshWorkers = 4
	defaultScoreTimeout   = 10 * time.Second
)

// MatchScore is a live score snapshot from the sports data provider. Found
// is false when the provider has no record for the fixture.
type MatchScore struct {
	Found     bool
	HomeScore *int
	AwayScore *int
	Status    pool.MatchStatus
}

// ScoreProvider looks up live scores for tracked fixtures.
type ScoreProvider interface {
	FetchScore(ctx context.Context, sport string, fixtureID int64) (MatchScore, error)
}

type PoolMatchInput struct {
	FixtureID *int64
	Sport     string
	League    string
	HomeTeam  string
	AwayTeam  string
	HomeLogo  string
	AwayLogo  string
	KickoffAt *time.Time
}

type CreatePoolInput struct {
	Actor       user.Principal
	Name        string
	Description string
	Sport       string
	Deadline    *time.Time
	Matches     []PoolMatchInput
}

type SubmitPredictionsInput struct {
	Actor  user.Principal
	PoolID int64
	Picks  map[int64]pool.Pick
}

type PoolDetail struct {
	Pool          pool.Pool
	Matches       []pool.Match
	Participants  []pool.Participant
	MyPredictions []pool.Prediction
	Joined        bool
}

type RefreshResult struct {
	PoolID      int64
	Updated     int
	Failed      int
	Skipped     int
	Finalized   bool
	WorkerCount int
}

type PoolService struct {
	repo           pool.Repository
	scores         ScoreProvider
	refreshWorkers int
	scoreTimeout   time.Duration
	now            func() time.Time
}

func NewPoolService(repo pool.Repository, scores ScoreProvider, refreshWorkers int, scoreTimeout time.Duration) *PoolService {
	if refreshWorkers < 1 {
		refreshWorkers = defaultRefreshWorkers
	}
	if scoreTimeout <= 0 {
		scoreTimeout = defaultScoreTimeout
	}
	return &PoolService{
		repo:           repo,
		scores:         scores,
		refreshWorkers: refreshWorkers,
		scoreTimeout:   scoreTimeout,
		now:            time.Now,
	}
}

func (s *PoolService) Create(ctx context.Context, input CreatePoolInput) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Sport = strings.TrimSpace(input.Sport)
	if input.Actor.UserID == 0 {
		return pool.Pool{}, fmt.Errorf("%w: authenticated user is required", ErrUnauthorized)
	}
	if input.Name == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool name is required", ErrInvalidInput)
	}
	if len(input.Matches) == 0 {
		return pool.Pool{}, fmt.Errorf("%w: at least one match is required", ErrInvalidInput)
	}
	if input.Sport == "" {
		input.Sport = "football"
	}

	now := s.now().UTC()
	p := pool.Pool{
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		Sport:       input.Sport,
		Status:      pool.StatusOpen,
		Deadline:    input.Deadline,
		CreatedBy:   input.Actor.UserID,
		CreatedAt:   now,
	}

	matches := make([]pool.Match, 0, len(input.Matches))
	for i, m := range input.Matches {
		home := strings.TrimSpace(m.HomeTeam)
		away := strings.TrimSpace(m.AwayTeam)
		if home == "" || away == "" {
			return pool.Pool{}, fmt.Errorf("%w: match %d needs both team names", ErrInvalidInput, i+1)
		}
		sport := strings.TrimSpace(m.Sport)
		if sport == "" {
			sport = input.Sport
		}
		matches = append(matches, pool.Match{
			FixtureID: m.FixtureID,
			Sport:     sport,
			League:    strings.TrimSpace(m.League),
			HomeTeam:  home,
			AwayTeam:  away,
			HomeLogo:  m.HomeLogo,
			AwayLogo:  m.AwayLogo,
			KickoffAt: m.KickoffAt,
			Status:    pool.MatchStatusNotStarted,
		})
	}

	// CreatePool also enrolls the creator as a participant, so the pool,
	// its matches and the creator's membership land together or not at all.
	created, err := s.repo.CreatePool(ctx, p, matches)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("create pool: %w", err)
	}

	return created, nil
}

func (s *PoolService) List(ctx context.Context) ([]pool.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.List")
	defer span.End()

	summaries, err := s.repo.ListPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	return summaries, nil
}

func (s *PoolService) Get(ctx context.Context, actor user.Principal, poolID int64) (PoolDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Get")
	defer span.End()

	p, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return PoolDetail{}, fmt.Errorf("get pool: %w", err)
	}
	if !found {
		return PoolDetail{}, fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}

	matches, err := s.repo.ListMatches(ctx, poolID)
	if err != nil {
		return PoolDetail{}, fmt.Errorf("list pool matches: %w", err)
	}
	participants, err := s.repo.ListParticipants(ctx, poolID)
	if err != nil {
		return PoolDetail{}, fmt.Errorf("list pool participants: %w", err)
	}
	mine, err := s.repo.ListUserPredictions(ctx, poolID, actor.UserID)
	if err != nil {
		return PoolDetail{}, fmt.Errorf("list user predictions: %w", err)
	}

	joined := false
	for _, member := range participants {
		if member.UserID == actor.UserID {
			joined = true
			break
		}
	}

	return PoolDetail{
		Pool:          p,
		Matches:       matches,
		Participants:  participants,
		MyPredictions: mine,
		Joined:        joined,
	}, nil
}

func (s *PoolService) Join(ctx context.Context, actor user.Principal, poolID int64) error {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Join")
	defer span.End()

	p, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return fmt.Errorf("get pool for join: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}
	if !p.AcceptsParticipants() {
		return fmt.Errorf("%w: pool no longer accepts participants", ErrInvalidInput)
	}

	if err := s.repo.AddParticipant(ctx, poolID, actor.UserID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

// SubmitPredictions stores the actor's picks. Invalid picks and picks for
// matches already underway are skipped rather than failing the batch.
func (s *PoolService) SubmitPredictions(ctx context.Context, input SubmitPredictionsInput) (saved int, skipped int, err error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.SubmitPredictions")
	defer span.End()

	if len(input.Picks) == 0 {
		return 0, 0, fmt.Errorf("%w: at least one pick is required", ErrInvalidInput)
	}

	p, found, err := s.repo.GetPool(ctx, input.PoolID)
	if err != nil {
		return 0, 0, fmt.Errorf("get pool for predictions: %w", err)
	}
	if !found {
		return 0, 0, fmt.Errorf("%w: pool %d", ErrNotFound, input.PoolID)
	}
	if !p.AcceptsPredictions(s.now().UTC()) {
		return 0, 0, fmt.Errorf("%w: pool no longer accepts predictions", ErrInvalidInput)
	}

	member, err := s.repo.IsParticipant(ctx, input.PoolID, input.Actor.UserID)
	if err != nil {
		return 0, 0, fmt.Errorf("check participant: %w", err)
	}
	if !member {
		return 0, 0, fmt.Errorf("%w: join the pool before predicting", ErrForbidden)
	}

	matches, err := s.repo.ListMatches(ctx, input.PoolID)
	if err != nil {
		return 0, 0, fmt.Errorf("list matches for predictions: %w", err)
	}
	matchByID := make(map[int64]pool.Match, len(matches))
	for _, m := range matches {
		matchByID[m.ID] = m
	}

	now := s.now().UTC()
	batch := make([]pool.Prediction, 0, len(input.Picks))
	for matchID, pick := range input.Picks {
		m, ok := matchByID[matchID]
		if !ok || !pool.ValidPick(pick) || m.Status != pool.MatchStatusNotStarted {
			skipped++
			continue
		}
		batch = append(batch, pool.Prediction{
			PoolID:    input.PoolID,
			MatchID:   matchID,
			UserID:    input.Actor.UserID,
			Pick:      pick,
			CreatedAt: now,
		})
	}

	if len(batch) == 0 {
		return 0, skipped, nil
	}
	if err := s.repo.UpsertPredictions(ctx, batch); err != nil {
		return 0, skipped, fmt.Errorf("save predictions: %w", err)
	}
	return len(batch), skipped, nil
}

// RefreshScores pulls the latest score for every tracked match, rescores the
// whole pool from scratch, and finalizes the pool once nothing is left
// unfinished. Fetches fan out over a bounded worker pool; each provider call
// gets its own timeout so one slow fixture cannot stall the pass.
func (s *PoolService) RefreshScores(ctx context.Context, actor user.Principal, poolID int64) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.RefreshScores")
	defer span.End()

	p, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("get pool for refresh: %w", err)
	}
	if !found {
		return RefreshResult{}, fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}
	if p.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return RefreshResult{}, fmt.Errorf("%w: only the pool creator may refresh scores", ErrForbidden)
	}

	matches, err := s.repo.ListMatches(ctx, poolID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list matches for refresh: %w", err)
	}

	type fetchOutcome struct {
		result pool.MatchResult
		ok     bool
		failed bool
	}

	pending := make([]pool.Match, 0, len(matches))
	result := RefreshResult{PoolID: poolID}
	for _, m := range matches {
		if m.Status == pool.MatchStatusFinished || m.FixtureID == nil {
			result.Skipped++
			continue
		}
		pending = append(pending, m)
	}

	if len(pending) > 0 {
		workerCount := s.refreshWorkers
		if workerCount > len(pending) {
			workerCount = len(pending)
		}
		result.WorkerCount = workerCount

		workerPool, err := ants.NewPool(workerCount)
		if err != nil {
			return RefreshResult{}, fmt.Errorf("create refresh worker pool: %w", err)
		}
		defer workerPool.Release()

		outcomes := make(chan fetchOutcome, len(pending))
		var workers sync.WaitGroup
		for _, m := range pending {
			m := m
			workers.Add(1)
			if err := workerPool.Submit(func() {
				defer workers.Done()

				fetchCtx, cancel := context.WithTimeout(ctx, s.scoreTimeout)
				defer cancel()

				score, err := s.scores.FetchScore(fetchCtx, m.Sport, *m.FixtureID)
				if err != nil {
					outcomes <- fetchOutcome{failed: true}
					return
				}
				if !score.Found {
					outcomes <- fetchOutcome{}
					return
				}
				// A status update without both scores is unusable: persisting
				// it would mark the match finished while its predictions can
				// never be evaluated. Skip it and retry on the next refresh.
				if score.HomeScore == nil || score.AwayScore == nil {
					outcomes <- fetchOutcome{}
					return
				}
				outcomes <- fetchOutcome{
					ok: true,
					result: pool.MatchResult{
						MatchID:   m.ID,
						HomeScore: score.HomeScore,
						AwayScore: score.AwayScore,
						Status:    score.Status,
					},
				}
			}); err != nil {
				workers.Done()
				return RefreshResult{}, fmt.Errorf("submit refresh task: %w", err)
			}
		}

		workers.Wait()
		close(outcomes)

		updates := make([]pool.MatchResult, 0, len(pending))
		for outcome := range outcomes {
			switch {
			case outcome.failed:
				result.Failed++
			case outcome.ok:
				updates = append(updates, outcome.result)
			default:
				result.Skipped++
			}
		}

		if len(updates) > 0 {
			if err := s.repo.ApplyMatchResults(ctx, updates); err != nil {
				return RefreshResult{}, fmt.Errorf("apply match results: %w", err)
			}
			result.Updated = len(updates)
		}
	}

	if err := s.rescore(ctx, poolID); err != nil {
		return RefreshResult{}, err
	}

	finalized, err := s.finalizeIfDone(ctx, poolID)
	if err != nil {
		return RefreshResult{}, err
	}
	result.Finalized = finalized

	return result, nil
}

func (s *PoolService) Standings(ctx context.Context, poolID int64) ([]pool.StandingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Standings")
	defer span.End()

	_, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("get pool for standings: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}

	rows, err := s.repo.Standings(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	return rows, nil
}

func (s *PoolService) Close(ctx context.Context, actor user.Principal, poolID int64) error {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Close")
	defer span.End()

	p, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return fmt.Errorf("get pool for close: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}
	if p.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the pool creator may close the pool", ErrForbidden)
	}
	if p.Status != pool.StatusOpen {
		return fmt.Errorf("%w: pool is not open", ErrInvalidInput)
	}

	if err := s.repo.UpdatePoolStatus(ctx, poolID, pool.StatusClosed); err != nil {
		return fmt.Errorf("close pool: %w", err)
	}
	return nil
}

func (s *PoolService) Delete(ctx context.Context, actor user.Principal, poolID int64) error {
	ctx, span := startUsecaseSpan(ctx, "PoolService.Delete")
	defer span.End()

	p, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return fmt.Errorf("get pool for delete: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: pool %d", ErrNotFound, poolID)
	}
	if p.CreatedBy != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: only the pool creator may delete the pool", ErrForbidden)
	}

	if err := s.repo.DeletePool(ctx, poolID); err != nil {
		return fmt.Errorf("delete pool: %w", err)
	}
	return nil
}

// rescore recomputes every prediction and participant total from current
// match results. Running it twice in a row yields identical state.
func (s *PoolService) rescore(ctx context.Context, poolID int64) error {
	matches, err := s.repo.ListMatches(ctx, poolID)
	if err != nil {
		return fmt.Errorf("list matches for rescore: %w", err)
	}
	predictions, err := s.repo.ListPredictions(ctx, poolID)
	if err != nil {
		return fmt.Errorf("list predictions for rescore: %w", err)
	}
	participants, err := s.repo.ListParticipants(ctx, poolID)
	if err != nil {
		return fmt.Errorf("list participants for rescore: %w", err)
	}

	results, totals := pool.Score(matches, predictions)

	// Participants without a single prediction still carry a zero total.
	for _, member := range participants {
		if _, ok := totals[member.UserID]; !ok {
			totals[member.UserID] = 0
		}
	}

	if err := s.repo.ApplyScoring(ctx, poolID, results, totals); err != nil {
		return fmt.Errorf("apply scoring: %w", err)
	}
	return nil
}

func (s *PoolService) finalizeIfDone(ctx context.Context, poolID int64) (bool, error) {
	p, found, err := s.repo.GetPool(ctx, poolID)
	if err != nil {
		return false, fmt.Errorf("get pool for finalize: %w", err)
	}
	if !found || p.Status == pool.StatusFinalized {
		return false, nil
	}

	matches, err := s.repo.ListMatches(ctx, poolID)
	if err != nil {
		return false, fmt.Errorf("list matches for finalize: %w", err)
	}
	if !pool.AllFinished(matches) {
		return false, nil
	}

	if err := s.repo.UpdatePoolStatus(ctx, poolID, pool.StatusFinalized); err != nil {
		return false, fmt.Errorf("finalize pool: %w", err)
	}
	return true, nil
}
