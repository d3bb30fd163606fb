package httpapi

import (
	"net/http"

	"github.com/panelcentral/backoffice/internal/domain/user"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.Handle("GET /v1/auth/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
}

func registerPoolRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	pools := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireCapability(user.CapabilityDuelazo, h))
	}

	mux.Handle("POST /v1/pools", pools(handler.CreatePool))
	mux.Handle("GET /v1/pools", pools(handler.ListPools))
	mux.Handle("GET /v1/pools/{poolID}", pools(handler.GetPool))
	mux.Handle("POST /v1/pools/{poolID}/join", pools(handler.JoinPool))
	mux.Handle("POST /v1/pools/{poolID}/predictions", pools(handler.SubmitPredictions))
	mux.Handle("POST /v1/pools/{poolID}/refresh", pools(handler.RefreshPoolScores))
	mux.Handle("GET /v1/pools/{poolID}/standings", pools(handler.PoolStandings))
	mux.Handle("POST /v1/pools/{poolID}/close", pools(handler.ClosePool))
	mux.Handle("DELETE /v1/pools/{poolID}", pools(handler.DeletePool))
}

func registerContentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	business := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireBusinessCapability(h))
	}

	mux.Handle("POST /v1/content/{business}/generate", business(handler.GenerateContent))
	mux.Handle("GET /v1/content/{business}/history", business(handler.ContentHistory))
	mux.Handle("GET /v1/content/{business}/history/{entryID}", business(handler.GetContentEntry))
	mux.Handle("DELETE /v1/content/{business}/history/{entryID}", business(handler.DeleteContentEntry))
	mux.Handle("POST /v1/content/{business}/history/bulk-delete", business(handler.DeleteContentEntries))
	mux.Handle("POST /v1/content/{business}/approve", business(handler.ApproveContent))
	mux.Handle("POST /v1/content/{business}/schedule", business(handler.ScheduleContent))
	mux.Handle("GET /v1/content/{business}/calendar", business(handler.ContentCalendar))
	mux.Handle("GET /v1/content/{business}/ideas", business(handler.ListIdeas))
	mux.Handle("POST /v1/content/{business}/ideas/generate", business(handler.GenerateIdeas))
	mux.Handle("PUT /v1/content/{business}/ideas/{ideaID}", business(handler.UseIdea))
}

func registerNewsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/news/search", RequireAuth(verifier, http.HandlerFunc(handler.SearchNews)))
}

func registerSportsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/sports/fixtures", RequireAuth(verifier, RequireCapability(user.CapabilityDuelazo, http.HandlerFunc(handler.ListFixtures))))
}

func registerTaskboardRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	board := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireCapability(user.CapabilityStyly, h))
	}

	mux.Handle("GET /v1/tasks/projects", board(handler.ListProjects))
	mux.Handle("POST /v1/tasks/projects", board(handler.CreateProject))
	mux.Handle("DELETE /v1/tasks/projects/{projectID}", board(handler.ArchiveProject))

	mux.Handle("GET /v1/tasks", board(handler.ListTasks))
	mux.Handle("POST /v1/tasks", board(handler.CreateTask))
	mux.Handle("POST /v1/tasks/bulk-update", board(handler.BulkUpdateTasks))
	mux.Handle("GET /v1/tasks/analytics", board(handler.ProjectAnalytics))
	mux.Handle("GET /v1/tasks/{taskID}", board(handler.GetTask))
	mux.Handle("PUT /v1/tasks/{taskID}", board(handler.UpdateTask))
	mux.Handle("DELETE /v1/tasks/{taskID}", board(handler.DeleteTask))

	mux.Handle("GET /v1/tasks/{taskID}/subtasks", board(handler.ListSubtasks))
	mux.Handle("POST /v1/tasks/{taskID}/subtasks", board(handler.AddSubtask))
	mux.Handle("PUT /v1/tasks/subtasks/{subtaskID}", board(handler.ToggleSubtask))
	mux.Handle("DELETE /v1/tasks/subtasks/{subtaskID}", board(handler.DeleteSubtask))

	mux.Handle("GET /v1/tasks/{taskID}/comments", board(handler.ListComments))
	mux.Handle("POST /v1/tasks/{taskID}/comments", board(handler.AddComment))
	mux.Handle("PUT /v1/tasks/comments/{commentID}", board(handler.EditComment))
	mux.Handle("DELETE /v1/tasks/comments/{commentID}", board(handler.DeleteComment))

	mux.Handle("POST /v1/tasks/{taskID}/assignees/{userID}", board(handler.AddAssignee))
	mux.Handle("DELETE /v1/tasks/{taskID}/assignees/{userID}", board(handler.RemoveAssignee))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(h))
	}

	mux.Handle("GET /v1/admin/users", admin(handler.ListUsers))
	mux.Handle("POST /v1/admin/users", admin(handler.CreateUser))
	mux.Handle("PUT /v1/admin/users/{userID}", admin(handler.UpdateUser))
	mux.Handle("DELETE /v1/admin/users/{userID}", admin(handler.DeleteUser))

	mux.Handle("GET /v1/admin/team-stats", admin(handler.TeamStats))
	mux.Handle("GET /v1/admin/business-stats", admin(handler.BusinessStats))
	mux.Handle("GET /v1/admin/format-usage", admin(handler.FormatUsage))
	mux.Handle("GET /v1/admin/upcoming-content", admin(handler.UpcomingContent))
	mux.Handle("GET /v1/admin/content-activity", admin(handler.ContentActivity))
	mux.Handle("POST /v1/admin/weekly-report", admin(handler.WeeklyReport))
}
