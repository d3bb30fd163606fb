package content

import (
	"context"
	"time"
)

type Repository interface {
	CreateEntry(ctx context.Context, e Entry) (Entry, error)
	GetEntry(ctx context.Context, id int64) (Entry, bool, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]Entry, error)
	UpdateEntryStatus(ctx context.Context, id int64, status EntryStatus, notes string) error
	DeleteEntries(ctx context.Context, ids []int64, userID int64, business string) (int, error)
	ScheduleEntry(ctx context.Context, id int64, at time.Time, platform string) error
	ListCalendar(ctx context.Context, business string, from, to time.Time) ([]CalendarItem, error)

	CreateIdea(ctx context.Context, idea Idea) (Idea, error)
	ListIdeas(ctx context.Context, business string, status IdeaStatus) ([]Idea, error)
	MarkIdeaUsed(ctx context.Context, id int64, usedAt time.Time) error
	DiscardIdea(ctx context.Context, id int64) error
}
