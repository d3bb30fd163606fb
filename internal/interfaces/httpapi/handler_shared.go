package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/panelcentral/backoffice/internal/domain/content"
	"github.com/panelcentral/backoffice/internal/domain/news"
	"github.com/panelcentral/backoffice/internal/domain/pool"
	"github.com/panelcentral/backoffice/internal/domain/report"
	"github.com/panelcentral/backoffice/internal/domain/taskboard"
	"github.com/panelcentral/backoffice/internal/domain/user"
	"github.com/panelcentral/backoffice/internal/usecase"
)

const historyPreviewLimit = 200

func decodeRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func pathID(r *http.Request, segment string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(segment))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, segment, raw)
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return 0
	}
	return v
}

func queryInt64(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(name)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatTimeUTC(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtrUTC(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimeUTC(*t)
}

func parseTimeUTC(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timestamp %q", usecase.ErrInvalidInput, raw)
	}
	utc := t.UTC()
	return &utc, nil
}

// ---- auth ----

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name       string   `json:"name" validate:"required,max=120"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	Role       string   `json:"role" validate:"omitempty,oneof=admin editor"`
	Businesses []string `json:"businesses" validate:"omitempty,dive,required"`
}

type updateUserRequest struct {
	Name       string   `json:"name" validate:"omitempty,max=120"`
	Role       string   `json:"role" validate:"omitempty,oneof=admin editor"`
	Status     string   `json:"status" validate:"omitempty,oneof=pending active suspended"`
	Businesses []string `json:"businesses"`
}

type userDTO struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Businesses   []string `json:"businesses"`
	Status       string   `json:"status"`
	AvatarURL    string   `json:"avatarUrl,omitempty"`
	CreatedAtUTC string   `json:"created_at_utc"`
}

type loginResponseDTO struct {
	Token        string  `json:"token"`
	ExpiresAtUTC string  `json:"expires_at_utc"`
	User         userDTO `json:"user"`
}

func userToDTO(ctx context.Context, v user.User) userDTO {
	ctx, span := startSpan(ctx, "httpapi.userToDTO")
	defer span.End()
	_ = ctx

	businesses := make([]string, 0, len(v.Capabilities))
	for _, c := range v.Capabilities {
		businesses = append(businesses, string(c))
	}
	return userDTO{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Role:         string(v.Role),
		Businesses:   businesses,
		Status:       string(v.Status),
		AvatarURL:    v.AvatarURL,
		CreatedAtUTC: formatTimeUTC(v.CreatedAt),
	}
}

func parseCapabilities(raw []string) ([]user.Capability, error) {
	out := make([]user.Capability, 0, len(raw))
	for _, item := range raw {
		capability, ok := user.ParseCapability(strings.TrimSpace(item))
		if !ok {
			return nil, fmt.Errorf("%w: unknown business %q", usecase.ErrInvalidInput, item)
		}
		out = append(out, capability)
	}
	return out, nil
}

// ---- pools ----

type createPoolMatchRequest struct {
	FixtureID *int64 `json:"fixture_id"`
	Sport     string `json:"sport"`
	League    string `json:"league"`
	HomeTeam  string `json:"home_team" validate:"required,max=120"`
	AwayTeam  string `json:"away_team" validate:"required,max=120"`
	HomeLogo  string `json:"home_logo"`
	AwayLogo  string `json:"away_logo"`
	KickoffAt string `json:"kickoff_at"`
}

type createPoolRequest struct {
	Name        string                   `json:"name" validate:"required,max=120"`
	Description string                   `json:"description" validate:"max=500"`
	Sport       string                   `json:"sport" validate:"required"`
	Deadline    string                   `json:"deadline"`
	Matches     []createPoolMatchRequest `json:"matches" validate:"required,min=1,dive"`
}

type submitPredictionsRequest struct {
	Picks map[string]string `json:"picks" validate:"required,min=1"`
}

type poolDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Sport        string `json:"sport"`
	Status       string `json:"status"`
	Deadline     string `json:"deadline,omitempty"`
	CreatedBy    int64  `json:"created_by"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type poolSummaryDTO struct {
	poolDTO
	MatchCount       int `json:"match_count"`
	ParticipantCount int `json:"participant_count"`
}

type matchDTO struct {
	ID        int64  `json:"id"`
	FixtureID *int64 `json:"fixture_id,omitempty"`
	Sport     string `json:"sport"`
	League    string `json:"league,omitempty"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeLogo  string `json:"home_logo,omitempty"`
	AwayLogo  string `json:"away_logo,omitempty"`
	KickoffAt string `json:"kickoff_at,omitempty"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
	Status    string `json:"status"`
}

type participantDTO struct {
	UserID      int64  `json:"user_id"`
	TotalPoints int    `json:"total_points"`
	JoinedAtUTC string `json:"joined_at_utc"`
}

type predictionDTO struct {
	MatchID int64  `json:"match_id"`
	Pick    string `json:"pick"`
	Correct *bool  `json:"correct,omitempty"`
}

type poolDetailDTO struct {
	Pool          poolDTO          `json:"pool"`
	Matches       []matchDTO       `json:"matches"`
	Participants  []participantDTO `json:"participants"`
	MyPredictions []predictionDTO  `json:"my_predictions"`
	Joined        bool             `json:"joined"`
}

type standingRowDTO struct {
	Rank      int    `json:"rank"`
	UserID    int64  `json:"user_id"`
	UserName  string `json:"user_name"`
	Points    int    `json:"points"`
	Correct   int    `json:"correct"`
	Evaluated int    `json:"evaluated"`
}

type refreshResultDTO struct {
	PoolID    int64 `json:"pool_id"`
	Updated   int   `json:"updated"`
	Failed    int   `json:"failed"`
	Skipped   int   `json:"skipped"`
	Finalized bool  `json:"finalized"`
}

type submitPredictionsResponseDTO struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
}

func poolToDTO(v pool.Pool) poolDTO {
	return poolDTO{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		Sport:        v.Sport,
		Status:       string(v.Status),
		Deadline:     formatTimePtrUTC(v.Deadline),
		CreatedBy:    v.CreatedBy,
		CreatedAtUTC: formatTimeUTC(v.CreatedAt),
	}
}

func poolSummaryToDTO(v pool.Summary) poolSummaryDTO {
	return poolSummaryDTO{
		poolDTO:          poolToDTO(v.Pool),
		MatchCount:       v.MatchCount,
		ParticipantCount: v.ParticipantCount,
	}
}

func matchToDTO(v pool.Match) matchDTO {
	return matchDTO{
		ID:        v.ID,
		FixtureID: v.FixtureID,
		Sport:     v.Sport,
		League:    v.League,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		HomeLogo:  v.HomeLogo,
		AwayLogo:  v.AwayLogo,
		KickoffAt: formatTimePtrUTC(v.KickoffAt),
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		Status:    string(v.Status),
	}
}

func poolDetailToDTO(ctx context.Context, v usecase.PoolDetail) poolDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.poolDetailToDTO")
	defer span.End()
	_ = ctx

	matches := make([]matchDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		matches = append(matches, matchToDTO(m))
	}
	participants := make([]participantDTO, 0, len(v.Participants))
	for _, p := range v.Participants {
		participants = append(participants, participantDTO{
			UserID:      p.UserID,
			TotalPoints: p.TotalPoints,
			JoinedAtUTC: formatTimeUTC(p.JoinedAt),
		})
	}
	predictions := make([]predictionDTO, 0, len(v.MyPredictions))
	for _, p := range v.MyPredictions {
		predictions = append(predictions, predictionDTO{
			MatchID: p.MatchID,
			Pick:    string(p.Pick),
			Correct: p.Correct,
		})
	}
	return poolDetailDTO{
		Pool:          poolToDTO(v.Pool),
		Matches:       matches,
		Participants:  participants,
		MyPredictions: predictions,
		Joined:        v.Joined,
	}
}

// ---- content ----

type generateContentRequest struct {
	System     string         `json:"system"`
	Prompt     string         `json:"prompt" validate:"required"`
	FormatType string         `json:"format_type" validate:"omitempty,max=60"`
	Input      map[string]any `json:"input"`
}

type approveContentRequest struct {
	EntryID int64  `json:"entry_id" validate:"required,gt=0"`
	Notes   string `json:"notes" validate:"max=1000"`
}

type scheduleContentRequest struct {
	EntryID  int64  `json:"entry_id" validate:"required,gt=0"`
	At       string `json:"scheduled_at" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,max=40"`
}

type deleteContentEntriesRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type generateIdeasRequest struct {
	System string `json:"system"`
	Prompt string `json:"prompt" validate:"required"`
	Count  int    `json:"count" validate:"omitempty,gt=0,lte=10"`
}

type useIdeaRequest struct {
	Status string `json:"status" validate:"required,oneof=used discarded"`
}

type contentEntryDTO struct {
	ID                int64          `json:"id"`
	Business          string         `json:"business"`
	FormatType        string         `json:"format_type,omitempty"`
	Input             map[string]any `json:"input,omitempty"`
	OutputText        string         `json:"output_text"`
	Status            string         `json:"status"`
	Notes             string         `json:"notes,omitempty"`
	ScheduledAtUTC    string         `json:"scheduled_at_utc,omitempty"`
	ScheduledPlatform string         `json:"scheduled_platform,omitempty"`
	CreatedAtUTC      string         `json:"created_at_utc"`
}

type calendarItemDTO struct {
	EntryID        int64  `json:"entry_id"`
	Business       string `json:"business"`
	FormatType     string `json:"format_type,omitempty"`
	Platform       string `json:"platform,omitempty"`
	ScheduledAtUTC string `json:"scheduled_at_utc"`
	Status         string `json:"status"`
}

type ideaDTO struct {
	ID              int64  `json:"id"`
	Business        string `json:"business"`
	Text            string `json:"idea_text"`
	Format          string `json:"format,omitempty"`
	Status          string `json:"status"`
	SeasonRelevance string `json:"season_relevance,omitempty"`
	CreatedAtUTC    string `json:"created_at_utc"`
	UsedAtUTC       string `json:"used_at_utc,omitempty"`
}

func contentEntryToDTO(v content.Entry, preview bool) contentEntryDTO {
	text := v.OutputText
	if preview && len([]rune(text)) > historyPreviewLimit {
		text = string([]rune(text)[:historyPreviewLimit])
	}
	return contentEntryDTO{
		ID:                v.ID,
		Business:          v.Business,
		FormatType:        v.FormatType,
		Input:             v.Input,
		OutputText:        text,
		Status:            string(v.Status),
		Notes:             v.Notes,
		ScheduledAtUTC:    formatTimePtrUTC(v.ScheduledAt),
		ScheduledPlatform: v.ScheduledPlatform,
		CreatedAtUTC:      formatTimeUTC(v.CreatedAt),
	}
}

func calendarItemToDTO(v content.CalendarItem) calendarItemDTO {
	return calendarItemDTO{
		EntryID:        v.EntryID,
		Business:       v.Business,
		FormatType:     v.FormatType,
		Platform:       v.Platform,
		ScheduledAtUTC: formatTimeUTC(v.ScheduledAt),
		Status:         string(v.Status),
	}
}

func ideaToDTO(v content.Idea) ideaDTO {
	return ideaDTO{
		ID:              v.ID,
		Business:        v.Business,
		Text:            v.Text,
		Format:          v.Format,
		Status:          string(v.Status),
		SeasonRelevance: v.SeasonRelevance,
		CreatedAtUTC:    formatTimeUTC(v.CreatedAt),
		UsedAtUTC:       formatTimePtrUTC(v.UsedAt),
	}
}

// ---- news ----

type searchNewsRequest struct {
	Query    string `json:"query" validate:"omitempty,max=200"`
	Category string `json:"category" validate:"omitempty,max=40"`
	Scope    string `json:"scope" validate:"omitempty,oneof=mx intl both"`
}

type newsArticleDTO struct {
	Source         string `json:"source"`
	Title          string `json:"title"`
	Summary        string `json:"summary,omitempty"`
	URL            string `json:"url"`
	ImageURL       string `json:"image_url,omitempty"`
	PublishedAtUTC string `json:"published_at_utc"`
	Category       string `json:"category,omitempty"`
}

func newsArticleToDTO(v news.Article) newsArticleDTO {
	return newsArticleDTO{
		Source:         v.Source,
		Title:          v.Title,
		Summary:        v.Summary,
		URL:            v.URL,
		ImageURL:       v.ImageURL,
		PublishedAtUTC: formatTimeUTC(v.PublishedAt),
		Category:       v.Category,
	}
}

// ---- sports ----

type fixtureDTO struct {
	ID        int64  `json:"id"`
	Sport     string `json:"sport"`
	League    string `json:"league,omitempty"`
	Country   string `json:"country,omitempty"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeLogo  string `json:"home_logo,omitempty"`
	AwayLogo  string `json:"away_logo,omitempty"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
	KickoffAt string `json:"kickoff_at,omitempty"`
	Status    string `json:"status"`
}

func fixtureToDTO(v usecase.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:        v.ID,
		Sport:     v.Sport,
		League:    v.League,
		Country:   v.Country,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		HomeLogo:  v.HomeLogo,
		AwayLogo:  v.AwayLogo,
		HomeScore: v.HomeScore,
		AwayScore: v.AwayScore,
		KickoffAt: formatTimeUTC(v.KickoffAt),
		Status:    string(v.Status),
	}
}

// ---- taskboard ----

type createProjectRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=40"`
	Color       string `json:"color" validate:"max=20"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type createTaskRequest struct {
	Code             string   `json:"code" validate:"required,max=10"`
	Title            string   `json:"title" validate:"required,max=200"`
	Description      string   `json:"description"`
	ProjectID        int64    `json:"project_id" validate:"required,gt=0"`
	Section          string   `json:"section" validate:"max=60"`
	Priority         string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags             []string `json:"tags"`
	EstimatedMinutes *int     `json:"estimated_minutes"`
	StartDate        string   `json:"start_date"`
	DueDate          string   `json:"due_date"`
	AssigneeIDs      []int64  `json:"assignee_ids"`
	WatcherIDs       []int64  `json:"watcher_ids"`
}

type updateTaskRequest struct {
	Title       string   `json:"title" validate:"omitempty,max=200"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	Section     string   `json:"section" validate:"max=60"`
	Status      string   `json:"status" validate:"omitempty,oneof=pending in_progress in_review done"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags        []string `json:"tags"`
	Progress    *int     `json:"progress" validate:"omitempty,gte=0,lte=100"`
	StartDate   string   `json:"start_date"`
	DueDate     string   `json:"due_date"`
	AssigneeIDs []int64  `json:"assignee_ids"`
	WatcherIDs  []int64  `json:"watcher_ids"`
}

type bulkUpdateTasksRequest struct {
	TaskIDs   []int64 `json:"task_ids" validate:"required,min=1,dive,gt=0"`
	Status    string  `json:"status" validate:"omitempty,oneof=pending in_progress in_review done"`
	ProjectID int64   `json:"project_id" validate:"omitempty,gt=0"`
}

type addSubtaskRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type toggleSubtaskRequest struct {
	Done bool `json:"done"`
}

type addCommentRequest struct {
	Body  string   `json:"body" validate:"required"`
	Files []string `json:"files" validate:"omitempty,dive,required"`
}

type editCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

type projectDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
	OwnerID      *int64 `json:"owner_id,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Status       string `json:"status"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type taskDTO struct {
	ID               int64    `json:"id"`
	Code             string   `json:"code"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	ProjectID        int64    `json:"project_id"`
	Section          string   `json:"section,omitempty"`
	Status           string   `json:"status"`
	Priority         string   `json:"priority"`
	Tags             []string `json:"tags,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	Progress         int      `json:"progress"`
	StartDate        string   `json:"start_date,omitempty"`
	DueDate          string   `json:"due_date,omitempty"`
	CreatedBy        *int64   `json:"created_by,omitempty"`
	AssigneeIDs      []int64  `json:"assignee_ids"`
	WatcherIDs       []int64  `json:"watcher_ids"`
	CreatedAtUTC     string   `json:"created_at_utc"`
	UpdatedAtUTC     string   `json:"updated_at_utc"`
}

type subtaskDTO struct {
	ID           int64  `json:"id"`
	TaskID       int64  `json:"task_id"`
	Title        string `json:"title"`
	Done         bool   `json:"done"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type commentDTO struct {
	ID           int64    `json:"id"`
	TaskID       int64    `json:"task_id"`
	UserID       *int64   `json:"user_id,omitempty"`
	Body         string   `json:"body"`
	Files        []string `json:"files,omitempty"`
	CreatedAtUTC string   `json:"created_at_utc"`
	EditedAtUTC  string   `json:"edited_at_utc,omitempty"`
}

type taskDetailDTO struct {
	Task     taskDTO      `json:"task"`
	Subtasks []subtaskDTO `json:"subtasks"`
	Comments []commentDTO `json:"comments"`
}

type statusCountDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type userLoadDTO struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Open     int    `json:"open"`
	Done     int    `json:"done"`
}

type priorityCountDTO struct {
	Priority string `json:"priority"`
	Total    int    `json:"total"`
	Done     int    `json:"done"`
}

type projectAnalyticsDTO struct {
	ProjectID       int64              `json:"project_id"`
	TotalTasks      int                `json:"total_tasks"`
	ByStatus        []statusCountDTO   `json:"by_status"`
	ByPriority      []priorityCountDTO `json:"by_priority"`
	Overdue         int                `json:"overdue"`
	DueThisWeek     int                `json:"due_this_week"`
	AvgProgress     float64            `json:"avg_progress"`
	LoadByUser      []userLoadDTO      `json:"load_by_user"`
	CommentsTotal   int                `json:"comments_total"`
	Urgent          []taskDTO          `json:"urgent"`
	RecentlyUpdated []taskDTO          `json:"recently_updated"`
}

func projectToDTO(v taskboard.Project) projectDTO {
	return projectDTO{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		Icon:         v.Icon,
		Color:        v.Color,
		OwnerID:      v.OwnerID,
		StartDate:    formatTimePtrUTC(v.StartDate),
		EndDate:      formatTimePtrUTC(v.EndDate),
		Status:       string(v.Status),
		CreatedAtUTC: formatTimeUTC(v.CreatedAt),
	}
}

func taskToDTO(v taskboard.Task) taskDTO {
	assignees := v.AssigneeIDs
	if assignees == nil {
		assignees = []int64{}
	}
	watchers := v.WatcherIDs
	if watchers == nil {
		watchers = []int64{}
	}
	return taskDTO{
		ID:               v.ID,
		Code:             v.Code,
		Title:            v.Title,
		Description:      v.Description,
		Notes:            v.Notes,
		ProjectID:        v.ProjectID,
		Section:          v.Section,
		Status:           string(v.Status),
		Priority:         string(v.Priority),
		Tags:             v.Tags,
		EstimatedMinutes: v.EstimatedMinutes,
		Progress:         v.Progress,
		StartDate:        formatTimePtrUTC(v.StartDate),
		DueDate:          formatTimePtrUTC(v.DueDate),
		CreatedBy:        v.CreatedBy,
		AssigneeIDs:      assignees,
		WatcherIDs:       watchers,
		CreatedAtUTC:     formatTimeUTC(v.CreatedAt),
		UpdatedAtUTC:     formatTimeUTC(v.UpdatedAt),
	}
}

func subtaskToDTO(v taskboard.Subtask) subtaskDTO {
	return subtaskDTO{
		ID:           v.ID,
		TaskID:       v.TaskID,
		Title:        v.Title,
		Done:         v.Done,
		CreatedAtUTC: formatTimeUTC(v.CreatedAt),
	}
}

func commentToDTO(v taskboard.Comment) commentDTO {
	return commentDTO{
		ID:           v.ID,
		TaskID:       v.TaskID,
		UserID:       v.UserID,
		Body:         v.Body,
		Files:        v.Files,
		CreatedAtUTC: formatTimeUTC(v.CreatedAt),
		EditedAtUTC:  formatTimePtrUTC(v.EditedAt),
	}
}

func projectAnalyticsToDTO(v taskboard.ProjectAnalytics) projectAnalyticsDTO {
	byStatus := make([]statusCountDTO, 0, len(v.ByStatus))
	for _, item := range v.ByStatus {
		byStatus = append(byStatus, statusCountDTO{Status: string(item.Status), Count: item.Count})
	}
	byPriority := make([]priorityCountDTO, 0, len(v.ByPriority))
	for _, item := range v.ByPriority {
		byPriority = append(byPriority, priorityCountDTO{Priority: string(item.Priority), Total: item.Total, Done: item.Done})
	}
	loads := make([]userLoadDTO, 0, len(v.LoadByUser))
	for _, item := range v.LoadByUser {
		loads = append(loads, userLoadDTO{UserID: item.UserID, UserName: item.UserName, Open: item.Open, Done: item.Done})
	}
	urgent := make([]taskDTO, 0, len(v.Urgent))
	for _, item := range v.Urgent {
		urgent = append(urgent, taskToDTO(item))
	}
	recent := make([]taskDTO, 0, len(v.RecentlyUpdated))
	for _, item := range v.RecentlyUpdated {
		recent = append(recent, taskToDTO(item))
	}
	return projectAnalyticsDTO{
		ProjectID:       v.ProjectID,
		TotalTasks:      v.TotalTasks,
		ByStatus:        byStatus,
		ByPriority:      byPriority,
		Overdue:         v.Overdue,
		DueThisWeek:     v.DueThisWeek,
		AvgProgress:     v.AvgProgress,
		LoadByUser:      loads,
		CommentsTotal:   v.CommentsTotal,
		Urgent:          urgent,
		RecentlyUpdated: recent,
	}
}

// ---- reports ----

type memberActivityDTO struct {
	UserID            int64          `json:"user_id"`
	Name              string         `json:"name"`
	Role              string         `json:"role"`
	GeneratedContent  int            `json:"generated_content"`
	ActiveBusinesses  []string       `json:"active_businesses,omitempty"`
	ContentByBusiness map[string]int `json:"content_by_business,omitempty"`
	TasksOpen         int            `json:"tasks_open"`
	TasksDone         int            `json:"tasks_done"`
}

type businessStatsDTO struct {
	Business       string `json:"business"`
	Total          int    `json:"total"`
	Approved       int    `json:"approved"`
	Scheduled      int    `json:"scheduled"`
	Drafts         int    `json:"drafts"`
	LastCreatedUTC string `json:"last_created_utc,omitempty"`
}

type formatUsageDTO struct {
	Business   string `json:"business"`
	FormatType string `json:"format_type"`
	Count      int    `json:"count"`
}

type upcomingContentDTO struct {
	EntryID        int64  `json:"entry_id"`
	Business       string `json:"business"`
	FormatType     string `json:"format_type,omitempty"`
	Platform       string `json:"platform,omitempty"`
	ScheduledAtUTC string `json:"scheduled_at_utc"`
}

type activityEntryDTO struct {
	EntryID      int64  `json:"entry_id"`
	UserID       int64  `json:"user_id"`
	UserName     string `json:"user_name"`
	Business     string `json:"business"`
	FormatType   string `json:"format_type,omitempty"`
	Status       string `json:"status"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type weeklyReportDTO struct {
	WindowStartUTC string               `json:"window_start_utc"`
	WindowEndUTC   string               `json:"window_end_utc"`
	TotalContent   int                  `json:"total_content"`
	PreviousTotal  int                  `json:"previous_total"`
	ByBusiness     []businessStatsDTO   `json:"by_business"`
	TopFormats     []formatUsageDTO     `json:"top_formats"`
	TeamActivity   []memberActivityDTO  `json:"team_activity"`
	UpcomingSlated []upcomingContentDTO `json:"upcoming_slated"`
}

func memberActivityToDTO(v report.MemberActivity) memberActivityDTO {
	return memberActivityDTO{
		UserID:            v.UserID,
		Name:              v.Name,
		Role:              v.Role,
		GeneratedContent:  v.GeneratedContent,
		ActiveBusinesses:  v.ActiveBusinesses,
		ContentByBusiness: v.ContentByBusiness,
		TasksOpen:         v.TasksOpen,
		TasksDone:         v.TasksDone,
	}
}

func businessStatsToDTO(v report.BusinessStats) businessStatsDTO {
	return businessStatsDTO{
		Business:       v.Business,
		Total:          v.Total,
		Approved:       v.Approved,
		Scheduled:      v.Scheduled,
		Drafts:         v.Drafts,
		LastCreatedUTC: formatTimePtrUTC(v.LastCreated),
	}
}

func formatUsageToDTO(v report.FormatUsage) formatUsageDTO {
	return formatUsageDTO{Business: v.Business, FormatType: v.FormatType, Count: v.TimesUsed}
}

func upcomingContentToDTO(v report.UpcomingContent) upcomingContentDTO {
	return upcomingContentDTO{
		EntryID:        v.EntryID,
		Business:       v.Business,
		FormatType:     v.FormatType,
		Platform:       v.Platform,
		ScheduledAtUTC: formatTimeUTC(v.ScheduledAt),
	}
}

func activityEntryToDTO(v report.ActivityEntry) activityEntryDTO {
	return activityEntryDTO{
		EntryID:      v.EntryID,
		UserID:       v.UserID,
		UserName:     v.UserName,
		Business:     v.Business,
		FormatType:   v.FormatType,
		Status:       v.Status,
		CreatedAtUTC: formatTimeUTC(v.CreatedAt),
	}
}

func weeklyReportToDTO(v report.WeeklyReport) weeklyReportDTO {
	byBusiness := make([]businessStatsDTO, 0, len(v.ByBusiness))
	for _, item := range v.ByBusiness {
		byBusiness = append(byBusiness, businessStatsToDTO(item))
	}
	formats := make([]formatUsageDTO, 0, len(v.TopFormats))
	for _, item := range v.TopFormats {
		formats = append(formats, formatUsageToDTO(item))
	}
	team := make([]memberActivityDTO, 0, len(v.TeamActivity))
	for _, item := range v.TeamActivity {
		team = append(team, memberActivityToDTO(item))
	}
	upcoming := make([]upcomingContentDTO, 0, len(v.UpcomingSlated))
	for _, item := range v.UpcomingSlated {
		upcoming = append(upcoming, upcomingContentToDTO(item))
	}
	return weeklyReportDTO{
		WindowStartUTC: formatTimeUTC(v.WindowStart),
		WindowEndUTC:   formatTimeUTC(v.WindowEnd),
		TotalContent:   v.TotalContent,
		PreviousTotal:  v.PreviousTotal,
		ByBusiness:     byBusiness,
		TopFormats:     formats,
		TeamActivity:   team,
		UpcomingSlated: upcoming,
	}
}
