package postgres

import (
	"database/sql"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/pool"
)

type poolTableModel struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Sport       string         `db:"sport"`
	Status      string         `db:"status"`
	Deadline    sql.NullTime   `db:"deadline"`
	CreatedBy   int64          `db:"created_by"`
	CreatedAt   time.Time      `db:"created_at"`
}

type poolSummaryTableModel struct {
	poolTableModel
	MatchCount       int `db:"match_count"`
	ParticipantCount int `db:"participant_count"`
}

type poolInsertModel struct {
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Sport       string     `db:"sport"`
	Status      string     `db:"status"`
	Deadline    *time.Time `db:"deadline"`
	CreatedBy   int64      `db:"created_by"`
}

type matchTableModel struct {
	ID        int64          `db:"id"`
	PoolID    int64          `db:"pool_id"`
	FixtureID sql.NullInt64  `db:"fixture_id"`
	Sport     string         `db:"sport"`
	League    sql.NullString `db:"league"`
	HomeTeam  string         `db:"home_team"`
	AwayTeam  string         `db:"away_team"`
	HomeLogo  sql.NullString `db:"home_logo"`
	AwayLogo  sql.NullString `db:"away_logo"`
	KickoffAt sql.NullTime   `db:"kickoff_at"`
	HomeScore sql.NullInt64  `db:"home_score"`
	AwayScore sql.NullInt64  `db:"away_score"`
	Status    string         `db:"status"`
}

type matchInsertModel struct {
	PoolID    int64      `db:"pool_id"`
	FixtureID *int64     `db:"fixture_id"`
	Sport     string     `db:"sport"`
	League    *string    `db:"league"`
	HomeTeam  string     `db:"home_team"`
	AwayTeam  string     `db:"away_team"`
	HomeLogo  *string    `db:"home_logo"`
	AwayLogo  *string    `db:"away_logo"`
	KickoffAt *time.Time `db:"kickoff_at"`
	Status    string     `db:"status"`
}

type participantTableModel struct {
	ID          int64     `db:"id"`
	PoolID      int64     `db:"pool_id"`
	UserID      int64     `db:"user_id"`
	TotalPoints int       `db:"total_points"`
	JoinedAt    time.Time `db:"joined_at"`
}

type predictionTableModel struct {
	ID        int64        `db:"id"`
	PoolID    int64        `db:"pool_id"`
	MatchID   int64        `db:"match_id"`
	UserID    int64        `db:"user_id"`
	Pick      string       `db:"pick"`
	Correct   sql.NullBool `db:"correct"`
	CreatedAt time.Time    `db:"created_at"`
}

type predictionInsertModel struct {
	PoolID  int64  `db:"pool_id"`
	MatchID int64  `db:"match_id"`
	UserID  int64  `db:"user_id"`
	Pick    string `db:"pick"`
}

type standingRowModel struct {
	UserID         int64  `db:"user_id"`
	UserName       string `db:"user_name"`
	Points         int    `db:"points"`
	CorrectCount   int    `db:"correct_count"`
	EvaluatedCount int    `db:"evaluated_count"`
}

func poolFromRow(row poolTableModel) pool.Pool {
	return pool.Pool{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description.String,
		Sport:       row.Sport,
		Status:      pool.Status(row.Status),
		Deadline:    nullTimeToPtr(row.Deadline),
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
	}
}

func matchFromRow(row matchTableModel) pool.Match {
	m := pool.Match{
		ID:        row.ID,
		PoolID:    row.PoolID,
		Sport:     row.Sport,
		League:    row.League.String,
		HomeTeam:  row.HomeTeam,
		AwayTeam:  row.AwayTeam,
		HomeLogo:  row.HomeLogo.String,
		AwayLogo:  row.AwayLogo.String,
		KickoffAt: nullTimeToPtr(row.KickoffAt),
		HomeScore: nullInt64ToIntPtr(row.HomeScore),
		AwayScore: nullInt64ToIntPtr(row.AwayScore),
		Status:    pool.MatchStatus(row.Status),
	}
	if row.FixtureID.Valid {
		id := row.FixtureID.Int64
		m.FixtureID = &id
	}
	return m
}

func predictionFromRow(row predictionTableModel) pool.Prediction {
	return pool.Prediction{
		ID:        row.ID,
		PoolID:    row.PoolID,
		MatchID:   row.MatchID,
		UserID:    row.UserID,
		Pick:      pool.Pick(row.Pick),
		Correct:   nullBoolToPtr(row.Correct),
		CreatedAt: row.CreatedAt,
	}
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
