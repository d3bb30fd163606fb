package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/panelcentral/backoffice/internal/domain/pool"
	qb "github.com/panelcentral/backoffice/internal/platform/querybuilder"
)

type PoolRepository struct {
	db *sqlx.DB
}

func NewPoolRepository(db *sqlx.DB) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) CreatePool(ctx context.Context, p pool.Pool, matches []pool.Match) (pool.Pool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("begin tx create pool: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := poolInsertModel{
		Name:        p.Name,
		Description: strPtrOrNil(p.Description),
		Sport:       p.Sport,
		Status:      string(p.Status),
		Deadline:    p.Deadline,
		CreatedBy:   p.CreatedBy,
	}
	query, args, err := qb.InsertModel("pools", insertModel, "RETURNING id, created_at")
	if err != nil {
		return pool.Pool{}, fmt.Errorf("build create pool query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return pool.Pool{}, fmt.Errorf("create pool: %w", err)
	}

	for _, m := range matches {
		matchModel := matchInsertModel{
			PoolID:    p.ID,
			FixtureID: m.FixtureID,
			Sport:     m.Sport,
			League:    strPtrOrNil(m.League),
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			HomeLogo:  strPtrOrNil(m.HomeLogo),
			AwayLogo:  strPtrOrNil(m.AwayLogo),
			KickoffAt: m.KickoffAt,
			Status:    string(m.Status),
		}
		matchQuery, matchArgs, err := qb.InsertModel("pool_matches", matchModel, "")
		if err != nil {
			return pool.Pool{}, fmt.Errorf("build create pool match query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, matchQuery, matchArgs...); err != nil {
			return pool.Pool{}, fmt.Errorf("create pool match: %w", err)
		}
	}

	// The creator joins their own pool in the same transaction, so a pool
	// row never exists without its creator participant.
	memberQuery, memberArgs, err := qb.InsertInto("pool_participants").
		Columns("pool_id", "user_id").
		Values(p.ID, p.CreatedBy).
		ToSQL()
	if err != nil {
		return pool.Pool{}, fmt.Errorf("build create pool participant query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
		return pool.Pool{}, fmt.Errorf("create pool participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return pool.Pool{}, fmt.Errorf("commit create pool tx: %w", err)
	}

	return p, nil
}

func (r *PoolRepository) GetPool(ctx context.Context, id int64) (pool.Pool, bool, error) {
	query, args, err := qb.Select("*").From("pools").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return pool.Pool{}, false, fmt.Errorf("build get pool query: %w", err)
	}
	var row poolTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pool.Pool{}, false, nil
		}
		return pool.Pool{}, false, fmt.Errorf("get pool: %w", err)
	}

	return poolFromRow(row), true, nil
}

func (r *PoolRepository) ListPools(ctx context.Context) ([]pool.Summary, error) {
	query, args, err := qb.Select(
		"p.*",
		"COUNT(DISTINCT m.id) AS match_count",
		"COUNT(DISTINCT pp.id) AS participant_count",
	).
		From("pools p").
		Join(
			"LEFT JOIN pool_matches m ON m.pool_id = p.id",
			"LEFT JOIN pool_participants pp ON pp.pool_id = p.id",
		).
		GroupBy("p.id").
		OrderBy("p.created_at DESC", "p.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pools query: %w", err)
	}

	var rows []poolSummaryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}

	out := make([]pool.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, pool.Summary{
			Pool:             poolFromRow(row.poolTableModel),
			MatchCount:       row.MatchCount,
			ParticipantCount: row.ParticipantCount,
		})
	}
	return out, nil
}

func (r *PoolRepository) UpdatePoolStatus(ctx context.Context, id int64, status pool.Status) error {
	query, args, err := qb.Update("pools").
		Set("status", string(status)).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pool status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pool status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update pool status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update pool status: not found")
	}

	return nil
}

// DeletePool removes the pool row; matches, participants, and predictions
// follow through ON DELETE CASCADE.
func (r *PoolRepository) DeletePool(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("pools").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete pool query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete pool: %w", err)
	}

	return nil
}

func (r *PoolRepository) ListMatches(ctx context.Context, poolID int64) ([]pool.Match, error) {
	query, args, err := qb.Select("*").From("pool_matches").
		Where(qb.Eq("pool_id", poolID)).
		OrderBy("kickoff_at ASC NULLS LAST", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pool matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pool matches: %w", err)
	}

	out := make([]pool.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *PoolRepository) ApplyMatchResults(ctx context.Context, results []pool.MatchResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx apply match results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, res := range results {
		query, args, err := qb.Update("pool_matches").
			Set("home_score", res.HomeScore).
			Set("away_score", res.AwayScore).
			Set("status", string(res.Status)).
			Where(qb.Eq("id", res.MatchID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build apply match result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply match result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply match results tx: %w", err)
	}

	return nil
}

func (r *PoolRepository) AddParticipant(ctx context.Context, poolID, userID int64) error {
	query, args, err := qb.InsertInto("pool_participants").
		Columns("pool_id", "user_id").
		Values(poolID, userID).
		Suffix("ON CONFLICT (pool_id, user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add pool participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("add pool participant: %w", err)
	}

	return nil
}

func (r *PoolRepository) IsParticipant(ctx context.Context, poolID, userID int64) (bool, error) {
	query, args, err := qb.Select("1").
		From("pool_participants").
		Where(
			qb.Eq("pool_id", poolID),
			qb.Eq("user_id", userID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build is pool participant query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("is pool participant: %w", err)
	}

	return true, nil
}

func (r *PoolRepository) ListParticipants(ctx context.Context, poolID int64) ([]pool.Participant, error) {
	query, args, err := qb.Select("*").From("pool_participants").
		Where(qb.Eq("pool_id", poolID)).
		OrderBy("joined_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pool participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pool participants: %w", err)
	}

	out := make([]pool.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, pool.Participant{
			ID:          row.ID,
			PoolID:      row.PoolID,
			UserID:      row.UserID,
			TotalPoints: row.TotalPoints,
			JoinedAt:    row.JoinedAt,
		})
	}
	return out, nil
}

func (r *PoolRepository) UpsertPredictions(ctx context.Context, predictions []pool.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range predictions {
		insertModel := predictionInsertModel{
			PoolID:  p.PoolID,
			MatchID: p.MatchID,
			UserID:  p.UserID,
			Pick:    string(p.Pick),
		}
		query, args, err := qb.InsertModel("pool_predictions", insertModel, `ON CONFLICT (match_id, user_id)
DO UPDATE SET
    pick = EXCLUDED.pick,
    correct = NULL,
    created_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions tx: %w", err)
	}

	return nil
}

func (r *PoolRepository) ListPredictions(ctx context.Context, poolID int64) ([]pool.Prediction, error) {
	return r.listPredictions(ctx, qb.Eq("pool_id", poolID))
}

func (r *PoolRepository) ListUserPredictions(ctx context.Context, poolID, userID int64) ([]pool.Prediction, error) {
	return r.listPredictions(ctx, qb.Eq("pool_id", poolID), qb.Eq("user_id", userID))
}

func (r *PoolRepository) listPredictions(ctx context.Context, conds ...qb.Condition) ([]pool.Prediction, error) {
	query, args, err := qb.Select("*").From("pool_predictions").
		Where(conds...).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}

	out := make([]pool.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

func (r *PoolRepository) ApplyScoring(ctx context.Context, poolID int64, results []pool.Prediction, totals map[int64]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx apply scoring: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range results {
		query, args, err := qb.Update("pool_predictions").
			Set("correct", p.Correct).
			Where(qb.Eq("id", p.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build apply prediction scoring query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply prediction scoring: %w", err)
		}
	}

	for userID, points := range totals {
		query, args, err := qb.Update("pool_participants").
			Set("total_points", points).
			Where(
				qb.Eq("pool_id", poolID),
				qb.Eq("user_id", userID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build apply participant total query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("apply participant total: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply scoring tx: %w", err)
	}

	return nil
}

func (r *PoolRepository) Standings(ctx context.Context, poolID int64) ([]pool.StandingRow, error) {
	query, args, err := qb.Select(
		"pp.user_id",
		"u.name AS user_name",
		"pp.total_points AS points",
		"COUNT(pr.id) FILTER (WHERE pr.correct IS TRUE) AS correct_count",
		"COUNT(pr.id) FILTER (WHERE pr.correct IS NOT NULL) AS evaluated_count",
	).
		From("pool_participants pp").
		Join(
			"JOIN users u ON u.id = pp.user_id",
			"LEFT JOIN pool_predictions pr ON pr.pool_id = pp.pool_id AND pr.user_id = pp.user_id",
		).
		Where(qb.Eq("pp.pool_id", poolID)).
		GroupBy("pp.id", "pp.user_id", "u.name", "pp.total_points", "pp.joined_at").
		OrderBy("pp.total_points DESC", "correct_count DESC", "pp.joined_at ASC", "pp.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build pool standings query: %w", err)
	}

	var rows []standingRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("pool standings: %w", err)
	}

	out := make([]pool.StandingRow, 0, len(rows))
	for i, row := range rows {
		out = append(out, pool.StandingRow{
			Rank:      i + 1,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Points:    row.Points,
			Correct:   row.CorrectCount,
			Evaluated: row.EvaluatedCount,
		})
	}
	return out, nil
}
