package taskboard

import (
	"context"
	"time"
)

type Repository interface {
	CreateProject(ctx context.Context, p Project) (Project, error)
	GetProject(ctx context.Context, id int64) (Project, bool, error)
	ListProjects(ctx context.Context) ([]Project, error)
	UpdateProject(ctx context.Context, p Project) error
	ArchiveProject(ctx context.Context, id int64) error

	CreateTask(ctx context.Context, t Task) (Task, error)
	GetTask(ctx context.Context, id int64) (Task, bool, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	UpdateTask(ctx context.Context, t Task) error
	DeleteTask(ctx context.Context, id int64) error
	SetAssignees(ctx context.Context, taskID int64, userIDs []int64) error
	SetWatchers(ctx context.Context, taskID int64, userIDs []int64) error

	CreateSubtask(ctx context.Context, s Subtask) (Subtask, error)
	ListSubtasks(ctx context.Context, taskID int64) ([]Subtask, error)
	SetSubtaskDone(ctx context.Context, id int64, done bool) error
	DeleteSubtask(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, c Comment) (Comment, error)
	GetComment(ctx context.Context, id int64) (Comment, bool, error)
	ListComments(ctx context.Context, taskID int64) ([]Comment, error)
	UpdateCommentBody(ctx context.Context, id int64, body string, editedAt time.Time) error
	DeleteComment(ctx context.Context, id int64) error

	ProjectAnalytics(ctx context.Context, projectID int64) (ProjectAnalytics, error)
}
