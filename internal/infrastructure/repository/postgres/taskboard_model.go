package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/panelcentral/backoffice/internal/domain/taskboard"
)

type projectTableModel struct {
	ID          int64          `db:"id"`
	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	Icon        string         `db:"icon"`
	Color       sql.NullString `db:"color"`
	OwnerID     sql.NullInt64  `db:"owner_id"`
	StartDate   sql.NullTime   `db:"start_date"`
	EndDate     sql.NullTime   `db:"end_date"`
	Status      string         `db:"status"`
	OrderIndex  int            `db:"order_index"`
	CreatedAt   time.Time      `db:"created_at"`
}

type projectInsertModel struct {
	Name        string     `db:"name"`
	Description *string    `db:"description"`
	Icon        string     `db:"icon"`
	Color       *string    `db:"color"`
	OwnerID     *int64     `db:"owner_id"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	Status      string     `db:"status"`
	OrderIndex  int        `db:"order_index"`
}

type taskTableModel struct {
	ID               int64          `db:"id"`
	Code             string         `db:"code"`
	Title            string         `db:"title"`
	Description      sql.NullString `db:"description"`
	Notes            sql.NullString `db:"notes"`
	ProjectID        int64          `db:"project_id"`
	Section          sql.NullString `db:"section"`
	Status           string         `db:"status"`
	Priority         string         `db:"priority"`
	Tags             pq.StringArray `db:"tags"`
	EstimatedMinutes sql.NullInt64  `db:"estimated_minutes"`
	Progress         int            `db:"progress"`
	StartDate        sql.NullTime   `db:"start_date"`
	DueDate          sql.NullTime   `db:"due_date"`
	CreatedBy        sql.NullInt64  `db:"created_by"`
	Position         int            `db:"position"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type taskInsertModel struct {
	Code             string         `db:"code"`
	Title            string         `db:"title"`
	Description      *string        `db:"description"`
	Notes            *string        `db:"notes"`
	ProjectID        int64          `db:"project_id"`
	Section          *string        `db:"section"`
	Status           string         `db:"status"`
	Priority         string         `db:"priority"`
	Tags             pq.StringArray `db:"tags"`
	EstimatedMinutes *int           `db:"estimated_minutes"`
	Progress         int            `db:"progress"`
	StartDate        *time.Time     `db:"start_date"`
	DueDate          *time.Time     `db:"due_date"`
	CreatedBy        *int64         `db:"created_by"`
	Position         int            `db:"position"`
}

type subtaskTableModel struct {
	ID         int64     `db:"id"`
	TaskID     int64     `db:"task_id"`
	Title      string    `db:"title"`
	Done       bool      `db:"done"`
	OrderIndex int       `db:"order_index"`
	CreatedAt  time.Time `db:"created_at"`
}

type commentTableModel struct {
	ID        int64          `db:"id"`
	TaskID    int64          `db:"task_id"`
	UserID    sql.NullInt64  `db:"user_id"`
	Body      string         `db:"body"`
	Files     pq.StringArray `db:"files"`
	CreatedAt time.Time      `db:"created_at"`
	EditedAt  sql.NullTime   `db:"edited_at"`
}

func projectFromRow(row projectTableModel) taskboard.Project {
	p := taskboard.Project{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description.String,
		Icon:        row.Icon,
		Color:       row.Color.String,
		StartDate:   nullTimeToPtr(row.StartDate),
		EndDate:     nullTimeToPtr(row.EndDate),
		Status:      taskboard.ProjectStatus(row.Status),
		OrderIndex:  row.OrderIndex,
		CreatedAt:   row.CreatedAt,
	}
	if row.OwnerID.Valid {
		id := row.OwnerID.Int64
		p.OwnerID = &id
	}
	return p
}

func taskFromRow(row taskTableModel) taskboard.Task {
	t := taskboard.Task{
		ID:               row.ID,
		Code:             row.Code,
		Title:            row.Title,
		Description:      row.Description.String,
		Notes:            row.Notes.String,
		ProjectID:        row.ProjectID,
		Section:          row.Section.String,
		Status:           taskboard.TaskStatus(row.Status),
		Priority:         taskboard.TaskPriority(row.Priority),
		Tags:             []string(row.Tags),
		EstimatedMinutes: nullInt64ToIntPtr(row.EstimatedMinutes),
		Progress:         row.Progress,
		StartDate:        nullTimeToPtr(row.StartDate),
		DueDate:          nullTimeToPtr(row.DueDate),
		Position:         row.Position,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.CreatedBy.Valid {
		id := row.CreatedBy.Int64
		t.CreatedBy = &id
	}
	return t
}

func subtaskFromRow(row subtaskTableModel) taskboard.Subtask {
	return taskboard.Subtask{
		ID:         row.ID,
		TaskID:     row.TaskID,
		Title:      row.Title,
		Done:       row.Done,
		OrderIndex: row.OrderIndex,
		CreatedAt:  row.CreatedAt,
	}
}

func commentFromRow(row commentTableModel) taskboard.Comment {
	c := taskboard.Comment{
		ID:        row.ID,
		TaskID:    row.TaskID,
		Body:      row.Body,
		Files:     []string(row.Files),
		CreatedAt: row.CreatedAt,
		EditedAt:  nullTimeToPtr(row.EditedAt),
	}
	if row.UserID.Valid {
		id := row.UserID.Int64
		c.UserID = &id
	}
	return c
}
