package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/panelcentral/backoffice/internal/domain/taskboard"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListProjects")
	defer span.End()

	projects, err := h.taskboardService.ListProjects(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]projectDTO, 0, len(projects))
	for _, project := range projects {
		items = append(items, projectToDTO(project))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateProject")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createProjectRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startDate, err := parseTimeUTC(req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	endDate, err := parseTimeUTC(req.EndDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	project, err := h.taskboardService.CreateProject(ctx, usecase.CreateProjectInput{
		Actor:       principal,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create project failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, projectToDTO(project))
}

func (h *Handler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ArchiveProject")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.taskboardService.ArchiveProject(ctx, principal, projectID); err != nil {
		h.logger.WarnContext(ctx, "archive project failed", "user_id", principal.UserID, "project_id", projectID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"archived": true})
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTasks")
	defer span.End()

	query := r.URL.Query()
	tasks, err := h.taskboardService.ListTasks(ctx, taskboard.TaskFilter{
		ProjectID:  queryInt64(r, "project_id"),
		Status:     taskboard.TaskStatus(strings.TrimSpace(query.Get("status"))),
		Priority:   taskboard.TaskPriority(strings.TrimSpace(query.Get("priority"))),
		AssigneeID: queryInt64(r, "assignee_id"),
		Section:    strings.TrimSpace(query.Get("section")),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]taskDTO, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToDTO(task))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTask")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createTaskRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startDate, err := parseTimeUTC(req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	dueDate, err := parseTimeUTC(req.DueDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	task, err := h.taskboardService.CreateTask(ctx, usecase.CreateTaskInput{
		Actor:            principal,
		Code:             req.Code,
		Title:            req.Title,
		Description:      req.Description,
		ProjectID:        req.ProjectID,
		Section:          req.Section,
		Priority:         taskboard.TaskPriority(req.Priority),
		Tags:             req.Tags,
		EstimatedMinutes: req.EstimatedMinutes,
		StartDate:        startDate,
		DueDate:          dueDate,
		AssigneeIDs:      req.AssigneeIDs,
		WatcherIDs:       req.WatcherIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create task failed", "user_id", principal.UserID, "code", req.Code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, taskToDTO(task))
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTask")
	defer span.End()

	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	task, subtasks, comments, err := h.taskboardService.GetTask(ctx, taskID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail := taskDetailDTO{
		Task:     taskToDTO(task),
		Subtasks: make([]subtaskDTO, 0, len(subtasks)),
		Comments: make([]commentDTO, 0, len(comments)),
	}
	for _, subtask := range subtasks {
		detail.Subtasks = append(detail.Subtasks, subtaskToDTO(subtask))
	}
	for _, comment := range comments {
		detail.Comments = append(detail.Comments, commentToDTO(comment))
	}
	writeSuccess(ctx, w, http.StatusOK, detail)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTask")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateTaskRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startDate, err := parseTimeUTC(req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	dueDate, err := parseTimeUTC(req.DueDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	task, err := h.taskboardService.UpdateTask(ctx, usecase.UpdateTaskInput{
		Actor:       principal,
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Section:     req.Section,
		Status:      taskboard.TaskStatus(req.Status),
		Priority:    taskboard.TaskPriority(req.Priority),
		Tags:        req.Tags,
		Progress:    req.Progress,
		StartDate:   startDate,
		DueDate:     dueDate,
		AssigneeIDs: req.AssigneeIDs,
		WatcherIDs:  req.WatcherIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update task failed", "user_id", principal.UserID, "task_id", taskID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, taskToDTO(task))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTask")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.taskboardService.DeleteTask(ctx, principal, taskID); err != nil {
		h.logger.WarnContext(ctx, "delete task failed", "user_id", principal.UserID, "task_id", taskID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) BulkUpdateTasks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkUpdateTasks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req bulkUpdateTasksRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.taskboardService.BulkUpdateTasks(ctx, usecase.BulkUpdateTasksInput{
		Actor:     principal,
		TaskIDs:   req.TaskIDs,
		Status:    taskboard.TaskStatus(req.Status),
		ProjectID: req.ProjectID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "bulk update tasks failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *Handler) AddAssignee(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddAssignee")
	defer span.End()

	h.changeAssignee(ctx, w, r, true)
}

func (h *Handler) RemoveAssignee(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveAssignee")
	defer span.End()

	h.changeAssignee(ctx, w, r, false)
}

func (h *Handler) changeAssignee(ctx context.Context, w http.ResponseWriter, r *http.Request, add bool) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var task taskboard.Task
	if add {
		task, err = h.taskboardService.AddAssignee(ctx, taskID, userID)
	} else {
		task, err = h.taskboardService.RemoveAssignee(ctx, taskID, userID)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, taskToDTO(task))
}

func (h *Handler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubtasks")
	defer span.End()

	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	_, subtasks, _, err := h.taskboardService.GetTask(ctx, taskID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]subtaskDTO, 0, len(subtasks))
	for _, subtask := range subtasks {
		items = append(items, subtaskToDTO(subtask))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddSubtask")
	defer span.End()

	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addSubtaskRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	subtask, err := h.taskboardService.AddSubtask(ctx, taskID, req.Title)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, subtaskToDTO(subtask))
}

func (h *Handler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleSubtask")
	defer span.End()

	subtaskID, err := pathID(r, "subtaskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req toggleSubtaskRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.taskboardService.ToggleSubtask(ctx, subtaskID, req.Done); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"done": req.Done})
}

func (h *Handler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSubtask")
	defer span.End()

	subtaskID, err := pathID(r, "subtaskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.taskboardService.RemoveSubtask(ctx, subtaskID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListComments")
	defer span.End()

	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	_, _, comments, err := h.taskboardService.GetTask(ctx, taskID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]commentDTO, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentToDTO(comment))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddComment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	taskID, err := pathID(r, "taskID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addCommentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	comment, err := h.taskboardService.AddComment(ctx, principal, taskID, req.Body, req.Files)
	if err != nil {
		h.logger.WarnContext(ctx, "add comment failed", "user_id", principal.UserID, "task_id", taskID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, commentToDTO(comment))
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditComment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req editCommentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.taskboardService.EditComment(ctx, principal, commentID, req.Body); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteComment")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.taskboardService.DeleteComment(ctx, principal, commentID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ProjectAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProjectAnalytics")
	defer span.End()

	projectID := queryInt64(r, "project_id")
	if projectID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: project_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	analytics, err := h.taskboardService.Analytics(ctx, projectID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, projectAnalyticsToDTO(analytics))
}
