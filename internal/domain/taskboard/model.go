package taskboard

import "time"

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

type Project struct {
	ID          int64
	Name        string
	Description string
	Icon        string
	Color       string
	OwnerID     *int64
	StartDate   *time.Time
	EndDate     *time.Time
	Status      ProjectStatus
	OrderIndex  int
	CreatedAt   time.Time
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID               int64
	Code             string
	Title            string
	Description      string
	Notes            string
	ProjectID        int64
	Section          string
	Status           TaskStatus
	Priority         TaskPriority
	Tags             []string
	EstimatedMinutes *int
	Progress         int
	StartDate        *time.Time
	DueDate          *time.Time
	CreatedBy        *int64
	Position         int
	AssigneeIDs      []int64
	WatcherIDs       []int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Subtask struct {
	ID         int64
	TaskID     int64
	Title      string
	Done       bool
	OrderIndex int
	CreatedAt  time.Time
}

type Comment struct {
	ID        int64
	TaskID    int64
	UserID    *int64
	Body      string
	Files     []string
	CreatedAt time.Time
	EditedAt  *time.Time
}

// TaskFilter narrows board listings.
type TaskFilter struct {
	ProjectID  int64
	Status     TaskStatus
	Priority   TaskPriority
	AssigneeID int64
	Section    string
}

type StatusCount struct {
	Status TaskStatus
	Count  int
}

type PriorityCount struct {
	Priority TaskPriority
	Total    int
	Done     int
}

type UserLoad struct {
	UserID   int64
	UserName string
	Open     int
	Done     int
}

// ProjectAnalytics is the rollup the board's overview panels render.
type ProjectAnalytics struct {
	ProjectID     int64
	TotalTasks    int
	ByStatus      []StatusCount
	ByPriority    []PriorityCount
	Overdue       int
	DueThisWeek   int
	AvgProgress   float64
	LoadByUser    []UserLoad
	CommentsTotal int

	// Urgent holds open high-priority tasks; RecentlyUpdated the last five
	// touched tasks.
	Urgent          []Task
	RecentlyUpdated []Task
}
