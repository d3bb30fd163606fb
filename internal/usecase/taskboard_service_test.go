package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/taskboard"
	"github.com/panelcentral/backoffice/internal/domain/user"
)

type memTaskboardRepo struct {
	mu          sync.Mutex
	nextProject int64
	nextTask    int64
	nextSubtask int64
	nextComment int64
	projects    map[int64]taskboard.Project
	tasks       map[int64]taskboard.Task
	subtasks    map[int64]taskboard.Subtask
	comments    map[int64]taskboard.Comment
}

func newMemTaskboardRepo() *memTaskboardRepo {
	return &memTaskboardRepo{
		projects: make(map[int64]taskboard.Project),
		tasks:    make(map[int64]taskboard.Task),
		subtasks: make(map[int64]taskboard.Subtask),
		comments: make(map[int64]taskboard.Comment),
	}
}

func (r *memTaskboardRepo) CreateProject(_ context.Context, p taskboard.Project) (taskboard.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextProject++
	p.ID = r.nextProject
	r.projects[p.ID] = p
	return p, nil
}

func (r *memTaskboardRepo) GetProject(_ context.Context, id int64) (taskboard.Project, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	return p, ok, nil
}

func (r *memTaskboardRepo) ListProjects(_ context.Context) ([]taskboard.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]taskboard.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskboardRepo) UpdateProject(_ context.Context, p taskboard.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return errors.New("project not found")
	}
	r.projects[p.ID] = p
	return nil
}

func (r *memTaskboardRepo) ArchiveProject(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return errors.New("project not found")
	}
	p.Status = taskboard.ProjectStatusArchived
	r.projects[id] = p
	return nil
}

func (r *memTaskboardRepo) CreateTask(_ context.Context, t taskboard.Task) (taskboard.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextTask++
	t.ID = r.nextTask
	r.tasks[t.ID] = t
	return t, nil
}

func (r *memTaskboardRepo) GetTask(_ context.Context, id int64) (taskboard.Task, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	return t, ok, nil
}

func (r *memTaskboardRepo) ListTasks(_ context.Context, filter taskboard.TaskFilter) ([]taskboard.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]taskboard.Task, 0)
	for _, t := range r.tasks {
		if filter.ProjectID != 0 && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskboardRepo) UpdateTask(_ context.Context, t taskboard.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return errors.New("task not found")
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *memTaskboardRepo) DeleteTask(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

func (r *memTaskboardRepo) SetAssignees(_ context.Context, taskID int64, userIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return errors.New("task not found")
	}
	t.AssigneeIDs = userIDs
	r.tasks[taskID] = t
	return nil
}

func (r *memTaskboardRepo) SetWatchers(_ context.Context, taskID int64, userIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[taskID]
	if !ok {
		return errors.New("task not found")
	}
	t.WatcherIDs = userIDs
	r.tasks[taskID] = t
	return nil
}

func (r *memTaskboardRepo) CreateSubtask(_ context.Context, s taskboard.Subtask) (taskboard.Subtask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSubtask++
	s.ID = r.nextSubtask
	r.subtasks[s.ID] = s
	return s, nil
}

func (r *memTaskboardRepo) ListSubtasks(_ context.Context, taskID int64) ([]taskboard.Subtask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]taskboard.Subtask, 0)
	for _, s := range r.subtasks {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskboardRepo) SetSubtaskDone(_ context.Context, id int64, done bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subtasks[id]
	if !ok {
		return errors.New("subtask not found")
	}
	s.Done = done
	r.subtasks[id] = s
	return nil
}

func (r *memTaskboardRepo) DeleteSubtask(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subtasks, id)
	return nil
}

func (r *memTaskboardRepo) CreateComment(_ context.Context, c taskboard.Comment) (taskboard.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextComment++
	c.ID = r.nextComment
	r.comments[c.ID] = c
	return c, nil
}

func (r *memTaskboardRepo) ListComments(_ context.Context, taskID int64) ([]taskboard.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]taskboard.Comment, 0)
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTaskboardRepo) GetComment(_ context.Context, id int64) (taskboard.Comment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	return c, ok, nil
}

func (r *memTaskboardRepo) UpdateCommentBody(_ context.Context, id int64, body string, editedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return errors.New("not found")
	}
	c.Body = body
	c.EditedAt = &editedAt
	r.comments[id] = c
	return nil
}

func (r *memTaskboardRepo) DeleteComment(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *memTaskboardRepo) ProjectAnalytics(_ context.Context, projectID int64) (taskboard.ProjectAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	analytics := taskboard.ProjectAnalytics{ProjectID: projectID}
	counts := make(map[taskboard.TaskStatus]int)
	priorities := make(map[taskboard.TaskPriority]*taskboard.PriorityCount)
	for _, t := range r.tasks {
		if t.ProjectID != projectID {
			continue
		}
		analytics.TotalTasks++
		counts[t.Status]++
		pc := priorities[t.Priority]
		if pc == nil {
			pc = &taskboard.PriorityCount{Priority: t.Priority}
			priorities[t.Priority] = pc
		}
		pc.Total++
		if t.Status == taskboard.TaskStatusDone {
			pc.Done++
		}
		if t.Priority == taskboard.TaskPriorityHigh && t.Status != taskboard.TaskStatusDone {
			analytics.Urgent = append(analytics.Urgent, t)
		}
	}
	for status, count := range counts {
		analytics.ByStatus = append(analytics.ByStatus, taskboard.StatusCount{Status: status, Count: count})
	}
	for _, pc := range priorities {
		analytics.ByPriority = append(analytics.ByPriority, *pc)
	}
	return analytics, nil
}

func seedProject(t *testing.T, svc *TaskboardService, actor user.Principal) taskboard.Project {
	t.Helper()
	project, err := svc.CreateProject(context.Background(), CreateProjectInput{Actor: actor, Name: "Rebrand Q3"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func TestTaskboardServiceProjectLifecycle(t *testing.T) {
	t.Parallel()

	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}

	project := seedProject(t, svc, owner)
	if project.Icon != "folder" || project.Status != taskboard.ProjectStatusActive {
		t.Fatalf("unexpected project defaults: %+v", project)
	}

	if _, err := svc.CreateProject(context.Background(), CreateProjectInput{Actor: owner, Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	outsider := user.Principal{UserID: 8}
	if err := svc.ArchiveProject(context.Background(), outsider, project.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden archiving another's project, got %v", err)
	}
	if err := svc.ArchiveProject(context.Background(), owner, project.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	got, _, _ := repo.GetProject(context.Background(), project.ID)
	if got.Status != taskboard.ProjectStatusArchived {
		t.Fatalf("expected archived project, got %s", got.Status)
	}
}

func TestTaskboardServiceTaskLifecycle(t *testing.T) {
	t.Parallel()

	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}
	project := seedProject(t, svc, owner)

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Actor:       owner,
		Code:        "TB-001",
		Title:       "Design kickoff deck",
		ProjectID:   project.ID,
		AssigneeIDs: []int64{4, 5},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != taskboard.TaskStatusPending || task.Priority != taskboard.TaskPriorityMedium {
		t.Fatalf("unexpected task defaults: %+v", task)
	}
	if len(task.AssigneeIDs) != 2 {
		t.Fatalf("expected assignees applied, got %+v", task.AssigneeIDs)
	}

	if _, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Actor: owner, Code: "WAY-TOO-LONG-CODE", Title: "x", ProjectID: project.ID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long code, got %v", err)
	}
	if _, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Actor: owner, Code: "TB-002", Title: "x", ProjectID: 404,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown project, got %v", err)
	}

	progress := 60
	updated, err := svc.UpdateTask(context.Background(), UpdateTaskInput{
		Actor:    owner,
		TaskID:   task.ID,
		Status:   taskboard.TaskStatusInProgress,
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != taskboard.TaskStatusInProgress || updated.Progress != 60 {
		t.Fatalf("unexpected updated task: %+v", updated)
	}

	bad := 150
	if _, err := svc.UpdateTask(context.Background(), UpdateTaskInput{Actor: owner, TaskID: task.ID, Progress: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for progress over 100, got %v", err)
	}
	if _, err := svc.UpdateTask(context.Background(), UpdateTaskInput{Actor: owner, TaskID: task.ID, Status: "parked"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}

	outsider := user.Principal{UserID: 8}
	if err := svc.DeleteTask(context.Background(), outsider, task.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider delete, got %v", err)
	}
	if err := svc.DeleteTask(context.Background(), owner, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
}

func TestTaskboardServiceSubtasksAndComments(t *testing.T) {
	t.Parallel()

	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}
	project := seedProject(t, svc, owner)

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Actor: owner, Code: "TB-001", Title: "Ship landing page", ProjectID: project.ID,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	subtask, err := svc.AddSubtask(context.Background(), task.ID, "Write hero copy")
	if err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if err := svc.ToggleSubtask(context.Background(), subtask.ID, true); err != nil {
		t.Fatalf("toggle subtask: %v", err)
	}

	comment, err := svc.AddComment(context.Background(), owner, task.ID, "Copy draft attached", []string{"hero-v1.pdf"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.UserID == nil || *comment.UserID != owner.UserID {
		t.Fatalf("expected comment author, got %+v", comment)
	}

	_, subtasks, comments, err := svc.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if len(subtasks) != 1 || !subtasks[0].Done {
		t.Fatalf("unexpected subtasks: %+v", subtasks)
	}
	if len(comments) != 1 {
		t.Fatalf("unexpected comments: %+v", comments)
	}

	if _, err := svc.AddSubtask(context.Background(), 404, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown task, got %v", err)
	}
	if _, err := svc.AddComment(context.Background(), owner, task.ID, "  ", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank comment, got %v", err)
	}
}

func TestTaskboardServiceAnalytics(t *testing.T) {
	t.Parallel()

	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}
	project := seedProject(t, svc, owner)

	for i, status := range []taskboard.TaskStatus{taskboard.TaskStatusPending, taskboard.TaskStatusDone, taskboard.TaskStatusDone} {
		task, err := svc.CreateTask(context.Background(), CreateTaskInput{
			Actor: owner, Code: "TB-00" + string(rune('1'+i)), Title: "t", ProjectID: project.ID,
		})
		if err != nil {
			t.Fatalf("create task %d: %v", i, err)
		}
		if status != taskboard.TaskStatusPending {
			if _, err := svc.UpdateTask(context.Background(), UpdateTaskInput{Actor: owner, TaskID: task.ID, Status: status}); err != nil {
				t.Fatalf("update task %d: %v", i, err)
			}
		}
	}

	if _, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Actor: owner, Code: "TB-009", Title: "escalation", ProjectID: project.ID, Priority: "high",
	}); err != nil {
		t.Fatalf("create urgent task: %v", err)
	}

	analytics, err := svc.Analytics(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if analytics.TotalTasks != 4 {
		t.Fatalf("expected 4 tasks, got %d", analytics.TotalTasks)
	}
	if len(analytics.Urgent) != 1 || analytics.Urgent[0].Code != "TB-009" {
		t.Fatalf("unexpected urgent tasks: %+v", analytics.Urgent)
	}
	var highDone bool
	for _, pc := range analytics.ByPriority {
		if pc.Priority == taskboard.TaskPriorityHigh {
			highDone = true
			if pc.Total != 1 || pc.Done != 0 {
				t.Fatalf("unexpected high priority rollup: %+v", pc)
			}
		}
	}
	if !highDone {
		t.Fatal("expected a high priority rollup entry")
	}

	if _, err := svc.Analytics(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown project, got %v", err)
	}
}

func TestTaskboardServiceBulkUpdateTasks(t *testing.T) {
	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}
	project := seedProject(t, svc, owner)

	var ids []int64
	for i := 0; i < 3; i++ {
		task, err := svc.CreateTask(context.Background(), CreateTaskInput{
			Actor: owner, Code: "TB-10" + string(rune('1'+i)), Title: "t", ProjectID: project.ID,
		})
		if err != nil {
			t.Fatalf("create task %d: %v", i, err)
		}
		ids = append(ids, task.ID)
	}

	// Unknown ids are skipped, known ones move to done.
	updated, err := svc.BulkUpdateTasks(context.Background(), BulkUpdateTasksInput{
		Actor:   owner,
		TaskIDs: append(ids, 999),
		Status:  taskboard.TaskStatusDone,
	})
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if updated != 3 {
		t.Fatalf("expected 3 updated, got %d", updated)
	}
	task, _, _, err := svc.GetTask(context.Background(), ids[0])
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Status != taskboard.TaskStatusDone {
		t.Fatalf("expected done, got %s", task.Status)
	}

	if _, err := svc.BulkUpdateTasks(context.Background(), BulkUpdateTasksInput{Actor: owner, TaskIDs: ids}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty change, got %v", err)
	}
	if _, err := svc.BulkUpdateTasks(context.Background(), BulkUpdateTasksInput{Actor: owner, TaskIDs: ids, ProjectID: 404}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown project, got %v", err)
	}
}

func TestTaskboardServiceAssigneeChanges(t *testing.T) {
	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}
	project := seedProject(t, svc, owner)

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		Actor: owner, Code: "TB-201", Title: "t", ProjectID: project.ID, AssigneeIDs: []int64{5},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	task, err = svc.AddAssignee(context.Background(), task.ID, 8)
	if err != nil {
		t.Fatalf("add assignee: %v", err)
	}
	if len(task.AssigneeIDs) != 2 {
		t.Fatalf("expected 2 assignees, got %v", task.AssigneeIDs)
	}

	// Re-adding the same user keeps the set unchanged.
	task, err = svc.AddAssignee(context.Background(), task.ID, 8)
	if err != nil {
		t.Fatalf("re-add assignee: %v", err)
	}
	if len(task.AssigneeIDs) != 2 {
		t.Fatalf("expected 2 assignees after re-add, got %v", task.AssigneeIDs)
	}

	task, err = svc.RemoveAssignee(context.Background(), task.ID, 5)
	if err != nil {
		t.Fatalf("remove assignee: %v", err)
	}
	if len(task.AssigneeIDs) != 1 || task.AssigneeIDs[0] != 8 {
		t.Fatalf("unexpected assignees after removal: %v", task.AssigneeIDs)
	}

	if _, err := svc.AddAssignee(context.Background(), 404, 8); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown task, got %v", err)
	}
}

func TestTaskboardServiceCommentModeration(t *testing.T) {
	repo := newMemTaskboardRepo()
	svc := NewTaskboardService(repo)
	owner := user.Principal{UserID: 3}
	author := user.Principal{UserID: 7}
	admin := user.Principal{UserID: 1, Role: user.RoleAdmin}
	project := seedProject(t, svc, owner)

	task, err := svc.CreateTask(context.Background(), CreateTaskInput{Actor: owner, Code: "TB-301", Title: "t", ProjectID: project.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	comment, err := svc.AddComment(context.Background(), author, task.ID, "primera versión lista", nil)
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	if err := svc.EditComment(context.Background(), owner, comment.ID, "edit"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author edit, got %v", err)
	}
	if err := svc.EditComment(context.Background(), author, comment.ID, "versión corregida"); err != nil {
		t.Fatalf("author edit: %v", err)
	}
	_, _, comments, err := svc.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if comments[0].Body != "versión corregida" || comments[0].EditedAt == nil {
		t.Fatalf("unexpected comment after edit: %+v", comments[0])
	}

	if err := svc.DeleteComment(context.Background(), admin, comment.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if err := svc.DeleteComment(context.Background(), admin, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
