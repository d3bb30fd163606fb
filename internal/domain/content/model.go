package content

import "time"

type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "draft"
	EntryStatusApproved  EntryStatus = "approved"
	EntryStatusScheduled EntryStatus = "scheduled"
	EntryStatusPublished EntryStatus = "published"
)

// Entry is one generated piece of content and its review state.
type Entry struct {
	ID                int64
	UserID            int64
	Business          string
	FormatType        string
	Input             map[string]any
	OutputText        string
	Status            EntryStatus
	Notes             string
	ScheduledAt       *time.Time
	ScheduledPlatform string
	CreatedAt         time.Time
}

type IdeaStatus string

const (
	IdeaStatusNew       IdeaStatus = "new"
	IdeaStatusUsed      IdeaStatus = "used"
	IdeaStatusDiscarded IdeaStatus = "discarded"
)

type Idea struct {
	ID              int64
	Business        string
	Text            string
	Format          string
	Status          IdeaStatus
	SeasonRelevance string
	CreatedAt       time.Time
	UsedAt          *time.Time
}

// EntryFilter narrows history listings.
type EntryFilter struct {
	Business   string
	UserID     int64
	FormatType string
	Status     EntryStatus
	Limit      int
	Offset     int
}

// CalendarItem is a scheduled entry projected for calendar views.
type CalendarItem struct {
	EntryID     int64
	Business    string
	FormatType  string
	Platform    string
	ScheduledAt time.Time
	Status      EntryStatus
}
