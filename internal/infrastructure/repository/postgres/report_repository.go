package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/panelcentral/backoffice/internal/domain/report"
	qb "github.com/panelcentral/backoffice/internal/platform/querybuilder"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) TeamActivity(ctx context.Context, from, to time.Time) ([]report.MemberActivity, error) {
	usersQuery, usersArgs, err := qb.Select("id", "name", "role").
		From("users").
		Where(qb.Eq("status", "active")).
		OrderBy("name ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build team activity users query: %w", err)
	}
	var users []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
		Role string `db:"role"`
	}
	if err := r.db.SelectContext(ctx, &users, usersQuery, usersArgs...); err != nil {
		return nil, fmt.Errorf("team activity users: %w", err)
	}

	contentQuery, contentArgs, err := qb.Select("user_id", "business", "COUNT(*) AS count").
		From("content_entries").
		Where(
			qb.Expr("created_at >= ?", from),
			qb.Expr("created_at < ?", to),
		).
		GroupBy("user_id", "business").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build team activity content query: %w", err)
	}
	var contentRows []struct {
		UserID   int64  `db:"user_id"`
		Business string `db:"business"`
		Count    int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &contentRows, contentQuery, contentArgs...); err != nil {
		return nil, fmt.Errorf("team activity content: %w", err)
	}

	tasksQuery, tasksArgs, err := qb.Select(
		"ta.user_id",
		"COUNT(*) FILTER (WHERE t.status <> 'done') AS open",
		"COUNT(*) FILTER (WHERE t.status = 'done') AS done",
	).
		From("task_assignees ta").
		Join("JOIN tasks t ON t.id = ta.task_id").
		GroupBy("ta.user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build team activity tasks query: %w", err)
	}
	var taskRows []struct {
		UserID int64 `db:"user_id"`
		Open   int   `db:"open"`
		Done   int   `db:"done"`
	}
	if err := r.db.SelectContext(ctx, &taskRows, tasksQuery, tasksArgs...); err != nil {
		return nil, fmt.Errorf("team activity tasks: %w", err)
	}

	byUser := make(map[int64]*report.MemberActivity, len(users))
	out := make([]report.MemberActivity, 0, len(users))
	for _, u := range users {
		out = append(out, report.MemberActivity{
			UserID:            u.ID,
			Name:              u.Name,
			Role:              u.Role,
			ContentByBusiness: map[string]int{},
		})
		byUser[u.ID] = &out[len(out)-1]
	}
	for _, row := range contentRows {
		member, ok := byUser[row.UserID]
		if !ok {
			continue
		}
		member.GeneratedContent += row.Count
		member.ContentByBusiness[row.Business] = row.Count
		member.ActiveBusinesses = append(member.ActiveBusinesses, row.Business)
	}
	for _, row := range taskRows {
		if member, ok := byUser[row.UserID]; ok {
			member.TasksOpen = row.Open
			member.TasksDone = row.Done
		}
	}
	return out, nil
}

func (r *ReportRepository) BusinessStats(ctx context.Context, from, to time.Time) ([]report.BusinessStats, error) {
	query, args, err := qb.Select(
		"business",
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE status = 'approved') AS approved",
		"COUNT(*) FILTER (WHERE status = 'scheduled') AS scheduled",
		"COUNT(*) FILTER (WHERE status = 'draft') AS drafts",
		"MAX(created_at) AS last_created",
	).
		From("content_entries").
		Where(
			qb.Expr("created_at >= ?", from),
			qb.Expr("created_at < ?", to),
		).
		GroupBy("business").
		OrderBy("total DESC", "business ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build business stats query: %w", err)
	}

	var rows []struct {
		Business    string     `db:"business"`
		Total       int        `db:"total"`
		Approved    int        `db:"approved"`
		Scheduled   int        `db:"scheduled"`
		Drafts      int        `db:"drafts"`
		LastCreated *time.Time `db:"last_created"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("business stats: %w", err)
	}

	out := make([]report.BusinessStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.BusinessStats{
			Business:    row.Business,
			Total:       row.Total,
			Approved:    row.Approved,
			Scheduled:   row.Scheduled,
			Drafts:      row.Drafts,
			LastCreated: row.LastCreated,
		})
	}
	return out, nil
}

func (r *ReportRepository) FormatUsage(ctx context.Context, from, to time.Time) ([]report.FormatUsage, error) {
	query, args, err := qb.Select("business", "format_type", "COUNT(*) AS times_used").
		From("content_entries").
		Where(
			qb.Expr("created_at >= ?", from),
			qb.Expr("created_at < ?", to),
		).
		GroupBy("business", "format_type").
		OrderBy("times_used DESC", "business ASC", "format_type ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build format usage query: %w", err)
	}

	var rows []struct {
		Business   string `db:"business"`
		FormatType string `db:"format_type"`
		TimesUsed  int    `db:"times_used"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("format usage: %w", err)
	}

	out := make([]report.FormatUsage, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.FormatUsage{
			Business:   row.Business,
			FormatType: row.FormatType,
			TimesUsed:  row.TimesUsed,
		})
	}
	return out, nil
}

func (r *ReportRepository) UpcomingContent(ctx context.Context, from time.Time, limit int) ([]report.UpcomingContent, error) {
	query, args, err := qb.Select("id", "business", "format_type", "scheduled_platform", "scheduled_at").
		From("content_entries").
		Where(
			qb.Eq("status", "scheduled"),
			qb.Expr("scheduled_at >= ?", from),
		).
		OrderBy("scheduled_at ASC", "id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build upcoming content query: %w", err)
	}

	var rows []struct {
		ID          int64     `db:"id"`
		Business    string    `db:"business"`
		FormatType  string    `db:"format_type"`
		Platform    string    `db:"scheduled_platform"`
		ScheduledAt time.Time `db:"scheduled_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("upcoming content: %w", err)
	}

	out := make([]report.UpcomingContent, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.UpcomingContent{
			EntryID:     row.ID,
			Business:    row.Business,
			FormatType:  row.FormatType,
			Platform:    row.Platform,
			ScheduledAt: row.ScheduledAt,
		})
	}
	return out, nil
}

func (r *ReportRepository) ContentActivity(ctx context.Context, from, to time.Time, limit int) ([]report.ActivityEntry, error) {
	query, args, err := qb.Select(
		"ce.id",
		"ce.user_id",
		"u.name AS user_name",
		"ce.business",
		"ce.format_type",
		"ce.status",
		"ce.created_at",
	).
		From("content_entries ce").
		Join("JOIN users u ON u.id = ce.user_id").
		Where(
			qb.Expr("ce.created_at >= ?", from),
			qb.Expr("ce.created_at < ?", to),
		).
		OrderBy("ce.created_at DESC", "ce.id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build content activity query: %w", err)
	}

	var rows []struct {
		ID         int64     `db:"id"`
		UserID     int64     `db:"user_id"`
		UserName   string    `db:"user_name"`
		Business   string    `db:"business"`
		FormatType string    `db:"format_type"`
		Status     string    `db:"status"`
		CreatedAt  time.Time `db:"created_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("content activity: %w", err)
	}

	out := make([]report.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.ActivityEntry{
			EntryID:    row.ID,
			UserID:     row.UserID,
			UserName:   row.UserName,
			Business:   row.Business,
			FormatType: row.FormatType,
			Status:     row.Status,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
