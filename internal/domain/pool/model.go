package pool

import "time"

type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusFinalized Status = "finalized"
)

type MatchStatus string

const (
	MatchStatusNotStarted MatchStatus = "not_started"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
)

// Pick is a participant's call on a match: home win, draw, or away win.
type Pick string

const (
	PickHome Pick = "home"
	PickDraw Pick = "draw"
	PickAway Pick = "away"
)

type Pool struct {
	ID          int64
	Name        string
	Description string
	Sport       string
	Status      Status
	Deadline    *time.Time
	CreatedBy   int64
	CreatedAt   time.Time
}

type Match struct {
	ID        int64
	PoolID    int64
	FixtureID *int64
	Sport     string
	League    string
	HomeTeam  string
	AwayTeam  string
	HomeLogo  string
	AwayLogo  string
	KickoffAt *time.Time
	HomeScore *int
	AwayScore *int
	Status    MatchStatus
}

type Participant struct {
	ID          int64
	PoolID      int64
	UserID      int64
	TotalPoints int
	JoinedAt    time.Time
}

type Prediction struct {
	ID        int64
	PoolID    int64
	MatchID   int64
	UserID    int64
	Pick      Pick
	Correct   *bool
	CreatedAt time.Time
}

// Summary augments a pool with the counts list views need.
type Summary struct {
	Pool
	MatchCount       int
	ParticipantCount int
}

type StandingRow struct {
	Rank      int
	UserID    int64
	UserName  string
	Points    int
	Correct   int
	Evaluated int
}
