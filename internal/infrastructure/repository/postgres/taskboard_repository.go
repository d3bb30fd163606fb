package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/panelcentral/backoffice/internal/domain/taskboard"
	qb "github.com/panelcentral/backoffice/internal/platform/querybuilder"
)

type TaskboardRepository struct {
	db *sqlx.DB
}

func NewTaskboardRepository(db *sqlx.DB) *TaskboardRepository {
	return &TaskboardRepository{db: db}
}

func (r *TaskboardRepository) CreateProject(ctx context.Context, p taskboard.Project) (taskboard.Project, error) {
	insertModel := projectInsertModel{
		Name:        p.Name,
		Description: strPtrOrNil(p.Description),
		Icon:        p.Icon,
		Color:       strPtrOrNil(p.Color),
		OwnerID:     p.OwnerID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      string(p.Status),
		OrderIndex:  p.OrderIndex,
	}
	query, args, err := qb.InsertModel("projects", insertModel, "RETURNING id, created_at")
	if err != nil {
		return taskboard.Project{}, fmt.Errorf("build create project query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return taskboard.Project{}, fmt.Errorf("create project: %w", err)
	}

	return p, nil
}

func (r *TaskboardRepository) GetProject(ctx context.Context, id int64) (taskboard.Project, bool, error) {
	query, args, err := qb.Select("*").From("projects").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return taskboard.Project{}, false, fmt.Errorf("build get project query: %w", err)
	}

	var row projectTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return taskboard.Project{}, false, nil
		}
		return taskboard.Project{}, false, fmt.Errorf("get project: %w", err)
	}

	return projectFromRow(row), true, nil
}

func (r *TaskboardRepository) ListProjects(ctx context.Context) ([]taskboard.Project, error) {
	query, args, err := qb.Select("*").From("projects").
		OrderBy("order_index ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list projects query: %w", err)
	}

	var rows []projectTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	out := make([]taskboard.Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, projectFromRow(row))
	}
	return out, nil
}

func (r *TaskboardRepository) UpdateProject(ctx context.Context, p taskboard.Project) error {
	query, args, err := qb.Update("projects").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("icon", p.Icon).
		Set("color", p.Color).
		Set("start_date", p.StartDate).
		Set("end_date", p.EndDate).
		Set("status", string(p.Status)).
		Set("order_index", p.OrderIndex).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update project query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update project: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update project: not found")
	}

	return nil
}

func (r *TaskboardRepository) ArchiveProject(ctx context.Context, id int64) error {
	query, args, err := qb.Update("projects").
		Set("status", string(taskboard.ProjectStatusArchived)).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build archive project query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("archive project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected archive project: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("archive project: not found")
	}

	return nil
}

func (r *TaskboardRepository) CreateTask(ctx context.Context, t taskboard.Task) (taskboard.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return taskboard.Task{}, fmt.Errorf("begin tx create task: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := taskInsertModel{
		Code:             t.Code,
		Title:            t.Title,
		Description:      strPtrOrNil(t.Description),
		Notes:            strPtrOrNil(t.Notes),
		ProjectID:        t.ProjectID,
		Section:          strPtrOrNil(t.Section),
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		Tags:             pq.StringArray(t.Tags),
		EstimatedMinutes: t.EstimatedMinutes,
		Progress:         t.Progress,
		StartDate:        t.StartDate,
		DueDate:          t.DueDate,
		CreatedBy:        t.CreatedBy,
		Position:         t.Position,
	}
	query, args, err := qb.InsertModel("tasks", insertModel, "RETURNING id, created_at, updated_at")
	if err != nil {
		return taskboard.Task{}, fmt.Errorf("build create task query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return taskboard.Task{}, fmt.Errorf("create task: %w", err)
	}

	if err := replaceTaskMembers(ctx, tx, "task_assignees", t.ID, t.AssigneeIDs); err != nil {
		return taskboard.Task{}, err
	}
	if err := replaceTaskMembers(ctx, tx, "task_watchers", t.ID, t.WatcherIDs); err != nil {
		return taskboard.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return taskboard.Task{}, fmt.Errorf("commit create task tx: %w", err)
	}

	return t, nil
}

func (r *TaskboardRepository) GetTask(ctx context.Context, id int64) (taskboard.Task, bool, error) {
	query, args, err := qb.Select("*").From("tasks").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return taskboard.Task{}, false, fmt.Errorf("build get task query: %w", err)
	}

	var row taskTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return taskboard.Task{}, false, nil
		}
		return taskboard.Task{}, false, fmt.Errorf("get task: %w", err)
	}

	t := taskFromRow(row)
	if t.AssigneeIDs, err = r.listTaskMembers(ctx, "task_assignees", id); err != nil {
		return taskboard.Task{}, false, err
	}
	if t.WatcherIDs, err = r.listTaskMembers(ctx, "task_watchers", id); err != nil {
		return taskboard.Task{}, false, err
	}

	return t, true, nil
}

func (r *TaskboardRepository) ListTasks(ctx context.Context, filter taskboard.TaskFilter) ([]taskboard.Task, error) {
	conds := []qb.Condition{}
	if filter.ProjectID != 0 {
		conds = append(conds, qb.Eq("t.project_id", filter.ProjectID))
	}
	if filter.Status != "" {
		conds = append(conds, qb.Eq("t.status", string(filter.Status)))
	}
	if filter.Priority != "" {
		conds = append(conds, qb.Eq("t.priority", string(filter.Priority)))
	}
	if filter.Section != "" {
		conds = append(conds, qb.Eq("t.section", filter.Section))
	}

	builder := qb.Select("t.*").From("tasks t")
	if filter.AssigneeID != 0 {
		builder = builder.Join("JOIN task_assignees ta ON ta.task_id = t.id")
		conds = append(conds, qb.Eq("ta.user_id", filter.AssigneeID))
	}
	query, args, err := builder.
		Where(conds...).
		OrderBy("t.position ASC", "t.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tasks query: %w", err)
	}

	var rows []taskTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]taskboard.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskFromRow(row))
	}
	return out, nil
}

func (r *TaskboardRepository) UpdateTask(ctx context.Context, t taskboard.Task) error {
	query, args, err := qb.Update("tasks").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("notes", t.Notes).
		Set("section", t.Section).
		Set("status", string(t.Status)).
		Set("priority", string(t.Priority)).
		Set("tags", pq.StringArray(t.Tags)).
		Set("estimated_minutes", t.EstimatedMinutes).
		Set("progress", t.Progress).
		Set("start_date", t.StartDate).
		Set("due_date", t.DueDate).
		Set("position", t.Position).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update task query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update task: not found")
	}

	return nil
}

// DeleteTask removes the task row; subtasks, comments, and member links
// follow through ON DELETE CASCADE.
func (r *TaskboardRepository) DeleteTask(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("tasks").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete task query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}

func (r *TaskboardRepository) SetAssignees(ctx context.Context, taskID int64, userIDs []int64) error {
	return r.setTaskMembers(ctx, "task_assignees", taskID, userIDs)
}

func (r *TaskboardRepository) SetWatchers(ctx context.Context, taskID int64, userIDs []int64) error {
	return r.setTaskMembers(ctx, "task_watchers", taskID, userIDs)
}

func (r *TaskboardRepository) setTaskMembers(ctx context.Context, table string, taskID int64, userIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx set %s: %w", table, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := replaceTaskMembers(ctx, tx, table, taskID, userIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set %s tx: %w", table, err)
	}

	return nil
}

func replaceTaskMembers(ctx context.Context, tx *sqlx.Tx, table string, taskID int64, userIDs []int64) error {
	deleteQuery, deleteArgs, err := qb.DeleteFrom(table).
		Where(qb.Eq("task_id", taskID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	for _, userID := range userIDs {
		insertQuery, insertArgs, err := qb.InsertInto(table).
			Columns("task_id", "user_id").
			Values(taskID, userID).
			Suffix("ON CONFLICT (task_id, user_id) DO NOTHING").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}

	return nil
}

func (r *TaskboardRepository) listTaskMembers(ctx context.Context, table string, taskID int64) ([]int64, error) {
	query, args, err := qb.Select("user_id").From(table).
		Where(qb.Eq("task_id", taskID)).
		OrderBy("user_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list %s query: %w", table, err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return ids, nil
}

func (r *TaskboardRepository) CreateSubtask(ctx context.Context, s taskboard.Subtask) (taskboard.Subtask, error) {
	query, args, err := qb.InsertInto("subtasks").
		Columns("task_id", "title", "done", "order_index").
		Values(s.TaskID, s.Title, s.Done, s.OrderIndex).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return taskboard.Subtask{}, fmt.Errorf("build create subtask query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		return taskboard.Subtask{}, fmt.Errorf("create subtask: %w", err)
	}

	return s, nil
}

func (r *TaskboardRepository) ListSubtasks(ctx context.Context, taskID int64) ([]taskboard.Subtask, error) {
	query, args, err := qb.Select("*").From("subtasks").
		Where(qb.Eq("task_id", taskID)).
		OrderBy("order_index ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list subtasks query: %w", err)
	}

	var rows []subtaskTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}

	out := make([]taskboard.Subtask, 0, len(rows))
	for _, row := range rows {
		out = append(out, subtaskFromRow(row))
	}
	return out, nil
}

func (r *TaskboardRepository) SetSubtaskDone(ctx context.Context, id int64, done bool) error {
	query, args, err := qb.Update("subtasks").
		Set("done", done).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set subtask done query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set subtask done: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected set subtask done: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set subtask done: not found")
	}

	return nil
}

func (r *TaskboardRepository) DeleteSubtask(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("subtasks").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete subtask query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}

	return nil
}

func (r *TaskboardRepository) CreateComment(ctx context.Context, c taskboard.Comment) (taskboard.Comment, error) {
	query, args, err := qb.InsertInto("task_comments").
		Columns("task_id", "user_id", "body", "files").
		Values(c.TaskID, c.UserID, c.Body, pq.StringArray(c.Files)).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return taskboard.Comment{}, fmt.Errorf("build create task comment query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return taskboard.Comment{}, fmt.Errorf("create task comment: %w", err)
	}

	return c, nil
}

func (r *TaskboardRepository) GetComment(ctx context.Context, id int64) (taskboard.Comment, bool, error) {
	query, args, err := qb.Select("*").From("task_comments").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return taskboard.Comment{}, false, fmt.Errorf("build get task comment query: %w", err)
	}

	var row commentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return taskboard.Comment{}, false, nil
		}
		return taskboard.Comment{}, false, fmt.Errorf("get task comment: %w", err)
	}
	return commentFromRow(row), true, nil
}

func (r *TaskboardRepository) ListComments(ctx context.Context, taskID int64) ([]taskboard.Comment, error) {
	query, args, err := qb.Select("*").From("task_comments").
		Where(qb.Eq("task_id", taskID)).
		OrderBy("created_at ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list task comments query: %w", err)
	}

	var rows []commentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list task comments: %w", err)
	}

	out := make([]taskboard.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, commentFromRow(row))
	}
	return out, nil
}

func (r *TaskboardRepository) UpdateCommentBody(ctx context.Context, id int64, body string, editedAt time.Time) error {
	query, args, err := qb.Update("task_comments").
		Set("body", body).
		Set("edited_at", editedAt).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update task comment query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update task comment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update task comment: not found")
	}

	return nil
}

func (r *TaskboardRepository) DeleteComment(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("task_comments").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete task comment query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete task comment: %w", err)
	}

	return nil
}

func (r *TaskboardRepository) ProjectAnalytics(ctx context.Context, projectID int64) (taskboard.ProjectAnalytics, error) {
	out := taskboard.ProjectAnalytics{ProjectID: projectID}

	statusQuery, statusArgs, err := qb.Select("status", "COUNT(*) AS count").
		From("tasks").
		Where(qb.Eq("project_id", projectID)).
		GroupBy("status").
		OrderBy("status ASC").
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build task status counts query: %w", err)
	}
	var statusRows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &statusRows, statusQuery, statusArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("task status counts: %w", err)
	}
	for _, row := range statusRows {
		out.ByStatus = append(out.ByStatus, taskboard.StatusCount{
			Status: taskboard.TaskStatus(row.Status),
			Count:  row.Count,
		})
		out.TotalTasks += row.Count
	}

	priorityQuery, priorityArgs, err := qb.Select(
		"priority",
		"COUNT(*) AS total",
		"COUNT(*) FILTER (WHERE status = 'done') AS done",
	).
		From("tasks").
		Where(qb.Eq("project_id", projectID)).
		GroupBy("priority").
		OrderBy("priority ASC").
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build task priority counts query: %w", err)
	}
	var priorityRows []struct {
		Priority string `db:"priority"`
		Total    int    `db:"total"`
		Done     int    `db:"done"`
	}
	if err := r.db.SelectContext(ctx, &priorityRows, priorityQuery, priorityArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("task priority counts: %w", err)
	}
	for _, row := range priorityRows {
		out.ByPriority = append(out.ByPriority, taskboard.PriorityCount{
			Priority: taskboard.TaskPriority(row.Priority),
			Total:    row.Total,
			Done:     row.Done,
		})
	}

	summaryQuery, summaryArgs, err := qb.Select(
		"COUNT(*) FILTER (WHERE due_date < NOW() AND status <> 'done') AS overdue",
		"COUNT(*) FILTER (WHERE due_date >= NOW() AND due_date < NOW() + INTERVAL '7 days' AND status <> 'done') AS due_this_week",
		"COALESCE(AVG(progress), 0) AS avg_progress",
	).
		From("tasks").
		Where(qb.Eq("project_id", projectID)).
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build task summary query: %w", err)
	}
	var summary struct {
		Overdue     int     `db:"overdue"`
		DueThisWeek int     `db:"due_this_week"`
		AvgProgress float64 `db:"avg_progress"`
	}
	if err := r.db.GetContext(ctx, &summary, summaryQuery, summaryArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("task summary: %w", err)
	}
	out.Overdue = summary.Overdue
	out.DueThisWeek = summary.DueThisWeek
	out.AvgProgress = summary.AvgProgress

	loadQuery, loadArgs, err := qb.Select(
		"ta.user_id",
		"u.name AS user_name",
		"COUNT(*) FILTER (WHERE t.status <> 'done') AS open",
		"COUNT(*) FILTER (WHERE t.status = 'done') AS done",
	).
		From("task_assignees ta").
		Join(
			"JOIN tasks t ON t.id = ta.task_id",
			"JOIN users u ON u.id = ta.user_id",
		).
		Where(qb.Eq("t.project_id", projectID)).
		GroupBy("ta.user_id", "u.name").
		OrderBy("open DESC", "ta.user_id ASC").
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build task load query: %w", err)
	}
	var loadRows []struct {
		UserID   int64  `db:"user_id"`
		UserName string `db:"user_name"`
		Open     int    `db:"open"`
		Done     int    `db:"done"`
	}
	if err := r.db.SelectContext(ctx, &loadRows, loadQuery, loadArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("task load: %w", err)
	}
	for _, row := range loadRows {
		out.LoadByUser = append(out.LoadByUser, taskboard.UserLoad{
			UserID:   row.UserID,
			UserName: row.UserName,
			Open:     row.Open,
			Done:     row.Done,
		})
	}

	commentsQuery, commentsArgs, err := qb.Select("COUNT(*)").
		From("task_comments tc").
		Join("JOIN tasks t ON t.id = tc.task_id").
		Where(qb.Eq("t.project_id", projectID)).
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build task comments count query: %w", err)
	}
	if err := r.db.GetContext(ctx, &out.CommentsTotal, commentsQuery, commentsArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("task comments count: %w", err)
	}

	urgentQuery, urgentArgs, err := qb.Select("*").
		From("tasks").
		Where(
			qb.Eq("project_id", projectID),
			qb.Eq("priority", string(taskboard.TaskPriorityHigh)),
			qb.Expr("status <> 'done'"),
		).
		OrderBy("due_date ASC NULLS LAST", "id ASC").
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build urgent tasks query: %w", err)
	}
	var urgentRows []taskTableModel
	if err := r.db.SelectContext(ctx, &urgentRows, urgentQuery, urgentArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("urgent tasks: %w", err)
	}
	for _, row := range urgentRows {
		out.Urgent = append(out.Urgent, taskFromRow(row))
	}

	recentQuery, recentArgs, err := qb.Select("*").
		From("tasks").
		Where(qb.Eq("project_id", projectID)).
		OrderBy("updated_at DESC", "id DESC").
		Limit(5).
		ToSQL()
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("build recent tasks query: %w", err)
	}
	var recentRows []taskTableModel
	if err := r.db.SelectContext(ctx, &recentRows, recentQuery, recentArgs...); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("recent tasks: %w", err)
	}
	for _, row := range recentRows {
		out.RecentlyUpdated = append(out.RecentlyUpdated, taskFromRow(row))
	}

	return out, nil
}
