package report

import "time"

// MemberActivity is one team member's output over a reporting window.
type MemberActivity struct {
	UserID            int64
	Name              string
	Role              string
	GeneratedContent  int
	ActiveBusinesses  []string
	ContentByBusiness map[string]int
	TasksOpen         int
	TasksDone         int
}

// BusinessStats aggregates generated content per business surface.
type BusinessStats struct {
	Business    string
	Total       int
	Approved    int
	Scheduled   int
	Drafts      int
	LastCreated *time.Time
}

type FormatUsage struct {
	Business   string
	FormatType string
	TimesUsed  int
}

type UpcomingContent struct {
	EntryID     int64
	Business    string
	FormatType  string
	Platform    string
	ScheduledAt time.Time
}

type ActivityEntry struct {
	EntryID    int64
	UserID     int64
	UserName   string
	Business   string
	FormatType string
	Status     string
	CreatedAt  time.Time
}

// WeeklyReport is the digest the admin dashboard renders every Monday.
type WeeklyReport struct {
	WindowStart    time.Time
	WindowEnd      time.Time
	TotalContent   int
	PreviousTotal  int
	ByBusiness     []BusinessStats
	TopFormats     []FormatUsage
	TeamActivity   []MemberActivity
	UpcomingSlated []UpcomingContent
}
