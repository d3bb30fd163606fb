package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/panelcentral/backoffice/internal/domain/content"
	qb "github.com/panelcentral/backoffice/internal/platform/querybuilder"
)

type ContentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateEntry(ctx context.Context, e content.Entry) (content.Entry, error) {
	input, err := sonic.Marshal(e.Input)
	if err != nil {
		return content.Entry{}, fmt.Errorf("encode content entry input: %w", err)
	}

	insertModel := contentEntryInsertModel{
		UserID:     e.UserID,
		Business:   e.Business,
		FormatType: e.FormatType,
		Input:      input,
		OutputText: e.OutputText,
		Status:     string(e.Status),
	}
	query, args, err := qb.InsertModel("content_entries", insertModel, "RETURNING id, created_at")
	if err != nil {
		return content.Entry{}, fmt.Errorf("build create content entry query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt); err != nil {
		return content.Entry{}, fmt.Errorf("create content entry: %w", err)
	}

	return e, nil
}

func (r *ContentRepository) GetEntry(ctx context.Context, id int64) (content.Entry, bool, error) {
	query, args, err := qb.Select("*").From("content_entries").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return content.Entry{}, false, fmt.Errorf("build get content entry query: %w", err)
	}

	var row contentEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return content.Entry{}, false, nil
		}
		return content.Entry{}, false, fmt.Errorf("get content entry: %w", err)
	}

	e, err := contentEntryFromRow(row)
	if err != nil {
		return content.Entry{}, false, err
	}
	return e, true, nil
}

func (r *ContentRepository) ListEntries(ctx context.Context, filter content.EntryFilter) ([]content.Entry, error) {
	conds := []qb.Condition{}
	if filter.Business != "" {
		conds = append(conds, qb.Eq("business", filter.Business))
	}
	if filter.UserID != 0 {
		conds = append(conds, qb.Eq("user_id", filter.UserID))
	}
	if filter.FormatType != "" {
		conds = append(conds, qb.Eq("format_type", filter.FormatType))
	}
	if filter.Status != "" {
		conds = append(conds, qb.Eq("status", string(filter.Status)))
	}

	builder := qb.Select("*").From("content_entries").
		Where(conds...).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list content entries query: %w", err)
	}

	var rows []contentEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list content entries: %w", err)
	}

	out := make([]content.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := contentEntryFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *ContentRepository) UpdateEntryStatus(ctx context.Context, id int64, status content.EntryStatus, notes string) error {
	builder := qb.Update("content_entries").
		Set("status", string(status)).
		Where(qb.Eq("id", id))
	if notes != "" {
		builder = builder.Set("notes", notes)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build update content entry status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update content entry status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update content entry status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update content entry status: not found")
	}

	return nil
}

func (r *ContentRepository) DeleteEntries(ctx context.Context, ids []int64, userID int64, business string) (int, error) {
	idArgs := make([]any, 0, len(ids))
	for _, id := range ids {
		idArgs = append(idArgs, id)
	}
	query, args, err := qb.DeleteFrom("content_entries").
		Where(
			qb.In("id", idArgs),
			qb.Eq("user_id", userID),
			qb.Eq("business", business),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete content entries query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete content entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected delete content entries: %w", err)
	}

	return int(affected), nil
}

func (r *ContentRepository) ScheduleEntry(ctx context.Context, id int64, at time.Time, platform string) error {
	query, args, err := qb.Update("content_entries").
		Set("status", string(content.EntryStatusScheduled)).
		Set("scheduled_at", at).
		Set("scheduled_platform", platform).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build schedule content entry query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("schedule content entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected schedule content entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("schedule content entry: not found")
	}

	return nil
}

func (r *ContentRepository) ListCalendar(ctx context.Context, business string, from, to time.Time) ([]content.CalendarItem, error) {
	conds := []qb.Condition{
		qb.Expr("scheduled_at IS NOT NULL"),
		qb.Expr("scheduled_at >= ?", from),
		qb.Expr("scheduled_at < ?", to),
	}
	if business != "" {
		conds = append(conds, qb.Eq("business", business))
	}
	query, args, err := qb.Select("id", "business", "format_type", "scheduled_platform", "scheduled_at", "status").
		From("content_entries").
		Where(conds...).
		OrderBy("scheduled_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list content calendar query: %w", err)
	}

	var rows []calendarItemModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list content calendar: %w", err)
	}

	out := make([]content.CalendarItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, content.CalendarItem{
			EntryID:     row.EntryID,
			Business:    row.Business,
			FormatType:  row.FormatType,
			Platform:    row.Platform,
			ScheduledAt: row.ScheduledAt,
			Status:      content.EntryStatus(row.Status),
		})
	}
	return out, nil
}

func (r *ContentRepository) CreateIdea(ctx context.Context, idea content.Idea) (content.Idea, error) {
	insertModel := ideaInsertModel{
		Business:        idea.Business,
		Text:            idea.Text,
		Format:          strPtrOrNil(idea.Format),
		Status:          string(idea.Status),
		SeasonRelevance: strPtrOrNil(idea.SeasonRelevance),
	}
	query, args, err := qb.InsertModel("content_ideas", insertModel, "RETURNING id, created_at")
	if err != nil {
		return content.Idea{}, fmt.Errorf("build create content idea query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&idea.ID, &idea.CreatedAt); err != nil {
		return content.Idea{}, fmt.Errorf("create content idea: %w", err)
	}

	return idea, nil
}

func (r *ContentRepository) ListIdeas(ctx context.Context, business string, status content.IdeaStatus) ([]content.Idea, error) {
	conds := []qb.Condition{}
	if business != "" {
		conds = append(conds, qb.Eq("business", business))
	}
	if status != "" {
		conds = append(conds, qb.Eq("status", string(status)))
	}
	query, args, err := qb.Select("*").From("content_ideas").
		Where(conds...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list content ideas query: %w", err)
	}

	var rows []ideaTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list content ideas: %w", err)
	}

	out := make([]content.Idea, 0, len(rows))
	for _, row := range rows {
		out = append(out, ideaFromRow(row))
	}
	return out, nil
}

func (r *ContentRepository) MarkIdeaUsed(ctx context.Context, id int64, usedAt time.Time) error {
	query, args, err := qb.Update("content_ideas").
		Set("status", string(content.IdeaStatusUsed)).
		Set("used_at", usedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark content idea used query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark content idea used: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected mark content idea used: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark content idea used: not found")
	}

	return nil
}

func (r *ContentRepository) DiscardIdea(ctx context.Context, id int64) error {
	query, args, err := qb.Update("content_ideas").
		Set("status", string(content.IdeaStatusDiscarded)).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build discard content idea query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("discard content idea: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected discard content idea: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("discard content idea: not found")
	}

	return nil
}
