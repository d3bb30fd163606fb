package report

import (
	"context"
	"time"
)

// Repository reads aggregate views over user, content, and task data.
// Windows are half-open: [from, to).
type Repository interface {
	TeamActivity(ctx context.Context, from, to time.Time) ([]MemberActivity, error)
	BusinessStats(ctx context.Context, from, to time.Time) ([]BusinessStats, error)
	FormatUsage(ctx context.Context, from, to time.Time) ([]FormatUsage, error)
	UpcomingContent(ctx context.Context, from time.Time, limit int) ([]UpcomingContent, error)
	ContentActivity(ctx context.Context, from, to time.Time, limit int) ([]ActivityEntry, error)
}
