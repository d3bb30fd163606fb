package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/taskboard"
	"github.com/panelcentral/backoffice/internal/domain/user"
)

type CreateProjectInput struct {
	Actor       user.Principal
	Name        string
	Description string
	Icon        string
	Color       string
	StartDate   *time.Time
	EndDate     *time.Time
}

type CreateTaskInput struct {
	Actor            user.Principal
	Code             string
	Title            string
	Description      string
	ProjectID        int64
	Section          string
	Priority         taskboard.TaskPriority
	Tags             []string
	EstimatedMinutes *int
	StartDate        *time.Time
	DueDate          *time.Time
	AssigneeIDs      []int64
	WatcherIDs       []int64
}

type UpdateTaskInput struct {
	Actor       user.Principal
	TaskID      int64
	Title       string
	Description string
	Notes       string
	Section     string
	Status      taskboard.TaskStatus
	Priority    taskboard.TaskPriority
	Tags        []string
	Progress    *int
	StartDate   *time.Time
	DueDate     *time.Time
	AssigneeIDs []int64
	WatcherIDs  []int64
}

type BulkUpdateTasksInput struct {
	Actor     user.Principal
	TaskIDs   []int64
	Status    taskboard.TaskStatus
	ProjectID int64
}

type TaskboardService struct {
	repo taskboard.Repository
	now  func() time.Time
}

func NewTaskboardService(repo taskboard.Repository) *TaskboardService {
	return &TaskboardService{repo: repo, now: time.Now}
}

func (s *TaskboardService) CreateProject(ctx context.Context, input CreateProjectInput) (taskboard.Project, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.CreateProject")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return taskboard.Project{}, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	icon := strings.TrimSpace(input.Icon)
	if icon == "" {
		icon = "folder"
	}

	owner := input.Actor.UserID
	project, err := s.repo.CreateProject(ctx, taskboard.Project{
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		Icon:        icon,
		Color:       strings.TrimSpace(input.Color),
		OwnerID:     &owner,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      taskboard.ProjectStatusActive,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return taskboard.Project{}, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *TaskboardService) ListProjects(ctx context.Context) ([]taskboard.Project, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.ListProjects")
	defer span.End()

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *TaskboardService) ArchiveProject(ctx context.Context, actor user.Principal, projectID int64) error {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.ArchiveProject")
	defer span.End()

	project, found, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("get project for archive: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}
	if !actor.IsAdmin() && (project.OwnerID == nil || *project.OwnerID != actor.UserID) {
		return fmt.Errorf("%w: only the project owner may archive it", ErrForbidden)
	}

	if err := s.repo.ArchiveProject(ctx, projectID); err != nil {
		return fmt.Errorf("archive project: %w", err)
	}
	return nil
}

func (s *TaskboardService) CreateTask(ctx context.Context, input CreateTaskInput) (taskboard.Task, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.CreateTask")
	defer span.End()

	input.Code = strings.TrimSpace(input.Code)
	input.Title = strings.TrimSpace(input.Title)
	if input.Code == "" || input.Title == "" {
		return taskboard.Task{}, fmt.Errorf("%w: task code and title are required", ErrInvalidInput)
	}
	if len(input.Code) > 10 {
		return taskboard.Task{}, fmt.Errorf("%w: task code is limited to 10 characters", ErrInvalidInput)
	}
	if _, found, err := s.repo.GetProject(ctx, input.ProjectID); err != nil {
		return taskboard.Task{}, fmt.Errorf("get project for task: %w", err)
	} else if !found {
		return taskboard.Task{}, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
	}

	priority := input.Priority
	if priority == "" {
		priority = taskboard.TaskPriorityMedium
	}

	creator := input.Actor.UserID
	now := s.now().UTC()
	task, err := s.repo.CreateTask(ctx, taskboard.Task{
		Code:             input.Code,
		Title:            input.Title,
		Description:      strings.TrimSpace(input.Description),
		ProjectID:        input.ProjectID,
		Section:          strings.TrimSpace(input.Section),
		Status:           taskboard.TaskStatusPending,
		Priority:         priority,
		Tags:             input.Tags,
		EstimatedMinutes: input.EstimatedMinutes,
		StartDate:        input.StartDate,
		DueDate:          input.DueDate,
		CreatedBy:        &creator,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return taskboard.Task{}, fmt.Errorf("create task: %w", err)
	}

	if len(input.AssigneeIDs) > 0 {
		if err := s.repo.SetAssignees(ctx, task.ID, input.AssigneeIDs); err != nil {
			return taskboard.Task{}, fmt.Errorf("set task assignees: %w", err)
		}
		task.AssigneeIDs = input.AssigneeIDs
	}
	if len(input.WatcherIDs) > 0 {
		if err := s.repo.SetWatchers(ctx, task.ID, input.WatcherIDs); err != nil {
			return taskboard.Task{}, fmt.Errorf("set task watchers: %w", err)
		}
		task.WatcherIDs = input.WatcherIDs
	}
	return task, nil
}

func (s *TaskboardService) ListTasks(ctx context.Context, filter taskboard.TaskFilter) ([]taskboard.Task, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.ListTasks")
	defer span.End()

	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskboardService) GetTask(ctx context.Context, taskID int64) (taskboard.Task, []taskboard.Subtask, []taskboard.Comment, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.GetTask")
	defer span.End()

	task, found, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return taskboard.Task{}, nil, nil, fmt.Errorf("get task: %w", err)
	}
	if !found {
		return taskboard.Task{}, nil, nil, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}

	subtasks, err := s.repo.ListSubtasks(ctx, taskID)
	if err != nil {
		return taskboard.Task{}, nil, nil, fmt.Errorf("list subtasks: %w", err)
	}
	comments, err := s.repo.ListComments(ctx, taskID)
	if err != nil {
		return taskboard.Task{}, nil, nil, fmt.Errorf("list comments: %w", err)
	}
	return task, subtasks, comments, nil
}

func (s *TaskboardService) UpdateTask(ctx context.Context, input UpdateTaskInput) (taskboard.Task, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.UpdateTask")
	defer span.End()

	task, found, err := s.repo.GetTask(ctx, input.TaskID)
	if err != nil {
		return taskboard.Task{}, fmt.Errorf("get task for update: %w", err)
	}
	if !found {
		return taskboard.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, input.TaskID)
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		task.Title = title
	}
	if input.Description != "" {
		task.Description = input.Description
	}
	if input.Notes != "" {
		task.Notes = input.Notes
	}
	if input.Section != "" {
		task.Section = input.Section
	}
	if input.Status != "" {
		switch input.Status {
		case taskboard.TaskStatusPending, taskboard.TaskStatusInProgress, taskboard.TaskStatusInReview, taskboard.TaskStatusDone:
			task.Status = input.Status
		default:
			return taskboard.Task{}, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, input.Status)
		}
	}
	if input.Priority != "" {
		switch input.Priority {
		case taskboard.TaskPriorityLow, taskboard.TaskPriorityMedium, taskboard.TaskPriorityHigh:
			task.Priority = input.Priority
		default:
			return taskboard.Task{}, fmt.Errorf("%w: unknown task priority %q", ErrInvalidInput, input.Priority)
		}
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return taskboard.Task{}, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
		}
		task.Progress = *input.Progress
	}
	if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	task.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return taskboard.Task{}, fmt.Errorf("update task: %w", err)
	}

	if input.AssigneeIDs != nil {
		if err := s.repo.SetAssignees(ctx, task.ID, input.AssigneeIDs); err != nil {
			return taskboard.Task{}, fmt.Errorf("set task assignees: %w", err)
		}
		task.AssigneeIDs = input.AssigneeIDs
	}
	if input.WatcherIDs != nil {
		if err := s.repo.SetWatchers(ctx, task.ID, input.WatcherIDs); err != nil {
			return taskboard.Task{}, fmt.Errorf("set task watchers: %w", err)
		}
		task.WatcherIDs = input.WatcherIDs
	}
	return task, nil
}

func (s *TaskboardService) DeleteTask(ctx context.Context, actor user.Principal, taskID int64) error {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.DeleteTask")
	defer span.End()

	task, found, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task for delete: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if !actor.IsAdmin() && (task.CreatedBy == nil || *task.CreatedBy != actor.UserID) {
		return fmt.Errorf("%w: only the task creator may delete it", ErrForbidden)
	}

	if err := s.repo.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// BulkUpdateTasks applies one status and/or project move to a batch of tasks.
// Tasks that no longer exist are skipped rather than failing the batch.
func (s *TaskboardService) BulkUpdateTasks(ctx context.Context, input BulkUpdateTasksInput) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.BulkUpdateTasks")
	defer span.End()

	if len(input.TaskIDs) == 0 {
		return 0, fmt.Errorf("%w: task ids are required", ErrInvalidInput)
	}
	if input.Status == "" && input.ProjectID == 0 {
		return 0, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if input.Status != "" {
		switch input.Status {
		case taskboard.TaskStatusPending, taskboard.TaskStatusInProgress, taskboard.TaskStatusInReview, taskboard.TaskStatusDone:
		default:
			return 0, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, input.Status)
		}
	}
	if input.ProjectID != 0 {
		if _, found, err := s.repo.GetProject(ctx, input.ProjectID); err != nil {
			return 0, fmt.Errorf("get target project: %w", err)
		} else if !found {
			return 0, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
		}
	}

	updated := 0
	for _, taskID := range input.TaskIDs {
		task, found, err := s.repo.GetTask(ctx, taskID)
		if err != nil {
			return updated, fmt.Errorf("get task %d for bulk update: %w", taskID, err)
		}
		if !found {
			continue
		}
		if input.Status != "" {
			task.Status = input.Status
		}
		if input.ProjectID != 0 {
			task.ProjectID = input.ProjectID
		}
		task.UpdatedAt = s.now().UTC()
		if err := s.repo.UpdateTask(ctx, task); err != nil {
			return updated, fmt.Errorf("bulk update task %d: %w", taskID, err)
		}
		updated++
	}
	return updated, nil
}

func (s *TaskboardService) AddAssignee(ctx context.Context, taskID, userID int64) (taskboard.Task, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.AddAssignee")
	defer span.End()

	return s.changeAssignees(ctx, taskID, userID, true)
}

func (s *TaskboardService) RemoveAssignee(ctx context.Context, taskID, userID int64) (taskboard.Task, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.RemoveAssignee")
	defer span.End()

	return s.changeAssignees(ctx, taskID, userID, false)
}

func (s *TaskboardService) changeAssignees(ctx context.Context, taskID, userID int64, add bool) (taskboard.Task, error) {
	task, found, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return taskboard.Task{}, fmt.Errorf("get task for assignee change: %w", err)
	}
	if !found {
		return taskboard.Task{}, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}

	next := make([]int64, 0, len(task.AssigneeIDs)+1)
	for _, id := range task.AssigneeIDs {
		if id == userID {
			continue
		}
		next = append(next, id)
	}
	if add {
		next = append(next, userID)
	}

	if err := s.repo.SetAssignees(ctx, taskID, next); err != nil {
		return taskboard.Task{}, fmt.Errorf("set task assignees: %w", err)
	}
	task.AssigneeIDs = next
	return task, nil
}

func (s *TaskboardService) AddSubtask(ctx context.Context, taskID int64, title string) (taskboard.Subtask, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.AddSubtask")
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		return taskboard.Subtask{}, fmt.Errorf("%w: subtask title is required", ErrInvalidInput)
	}
	if _, found, err := s.repo.GetTask(ctx, taskID); err != nil {
		return taskboard.Subtask{}, fmt.Errorf("get task for subtask: %w", err)
	} else if !found {
		return taskboard.Subtask{}, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}

	subtask, err := s.repo.CreateSubtask(ctx, taskboard.Subtask{
		TaskID:    taskID,
		Title:     title,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return taskboard.Subtask{}, fmt.Errorf("create subtask: %w", err)
	}
	return subtask, nil
}

func (s *TaskboardService) ToggleSubtask(ctx context.Context, subtaskID int64, done bool) error {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.ToggleSubtask")
	defer span.End()

	if err := s.repo.SetSubtaskDone(ctx, subtaskID, done); err != nil {
		return fmt.Errorf("toggle subtask: %w", err)
	}
	return nil
}

func (s *TaskboardService) RemoveSubtask(ctx context.Context, subtaskID int64) error {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.RemoveSubtask")
	defer span.End()

	if err := s.repo.DeleteSubtask(ctx, subtaskID); err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return nil
}

func (s *TaskboardService) AddComment(ctx context.Context, actor user.Principal, taskID int64, body string, files []string) (taskboard.Comment, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.AddComment")
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return taskboard.Comment{}, fmt.Errorf("%w: comment body is required", ErrInvalidInput)
	}
	if _, found, err := s.repo.GetTask(ctx, taskID); err != nil {
		return taskboard.Comment{}, fmt.Errorf("get task for comment: %w", err)
	} else if !found {
		return taskboard.Comment{}, fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}

	author := actor.UserID
	comment, err := s.repo.CreateComment(ctx, taskboard.Comment{
		TaskID:    taskID,
		UserID:    &author,
		Body:      body,
		Files:     files,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return taskboard.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// EditComment rewrites a comment body. Only the author or an admin may edit.
func (s *TaskboardService) EditComment(ctx context.Context, actor user.Principal, commentID int64, body string) error {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.EditComment")
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("%w: comment body is required", ErrInvalidInput)
	}
	if err := s.authorizeCommentChange(ctx, actor, commentID); err != nil {
		return err
	}
	if err := s.repo.UpdateCommentBody(ctx, commentID, body, s.now().UTC()); err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (s *TaskboardService) DeleteComment(ctx context.Context, actor user.Principal, commentID int64) error {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.DeleteComment")
	defer span.End()

	if err := s.authorizeCommentChange(ctx, actor, commentID); err != nil {
		return err
	}
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *TaskboardService) authorizeCommentChange(ctx context.Context, actor user.Principal, commentID int64) error {
	comment, found, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: comment %d", ErrNotFound, commentID)
	}
	if !actor.IsAdmin() && (comment.UserID == nil || *comment.UserID != actor.UserID) {
		return fmt.Errorf("%w: only the comment author may change it", ErrForbidden)
	}
	return nil
}

func (s *TaskboardService) Analytics(ctx context.Context, projectID int64) (taskboard.ProjectAnalytics, error) {
	ctx, span := startUsecaseSpan(ctx, "TaskboardService.Analytics")
	defer span.End()

	if _, found, err := s.repo.GetProject(ctx, projectID); err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("get project for analytics: %w", err)
	} else if !found {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("%w: project %d", ErrNotFound, projectID)
	}

	analytics, err := s.repo.ProjectAnalytics(ctx, projectID)
	if err != nil {
		return taskboard.ProjectAnalytics{}, fmt.Errorf("load project analytics: %w", err)
	}
	return analytics, nil
}
