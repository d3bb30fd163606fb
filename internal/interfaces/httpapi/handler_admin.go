package httpapi

import (
	"fmt"
	"net/http"

	"github.com/panelcentral/backoffice/internal/domain/user"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	users, err := h.authService.ListUsers(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(ctx, u))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateUser")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createUserRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	capabilities, err := parseCapabilities(req.Businesses)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.authService.CreateUser(ctx, usecase.CreateUserInput{
		Actor:        principal,
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         user.Role(req.Role),
		Capabilities: capabilities,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create user failed", "actor_id", principal.UserID, "email", req.Email, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, userToDTO(ctx, created))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateUser")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateUserRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var capabilities []user.Capability
	if req.Businesses != nil {
		capabilities, err = parseCapabilities(req.Businesses)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	updated, err := h.authService.UpdateUser(ctx, usecase.UpdateUserInput{
		Actor:        principal,
		UserID:       userID,
		Name:         req.Name,
		Role:         user.Role(req.Role),
		Capabilities: capabilities,
		Status:       user.Status(req.Status),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update user failed", "actor_id", principal.UserID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(ctx, updated))
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteUser")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.authService.DeleteUser(ctx, principal, userID); err != nil {
		h.logger.WarnContext(ctx, "delete user failed", "actor_id", principal.UserID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) TeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	stats, err := h.reportService.TeamStats(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]memberActivityDTO, 0, len(stats))
	for _, item := range stats {
		items = append(items, memberActivityToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) BusinessStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BusinessStats")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	stats, err := h.reportService.BusinessStats(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]businessStatsDTO, 0, len(stats))
	for _, item := range stats {
		items = append(items, businessStatsToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) FormatUsage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FormatUsage")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	usage, err := h.reportService.FormatUsage(ctx, principal)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]formatUsageDTO, 0, len(usage))
	for _, item := range usage {
		items = append(items, formatUsageToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpcomingContent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpcomingContent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	upcoming, err := h.reportService.UpcomingContent(ctx, principal, queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]upcomingContentDTO, 0, len(upcoming))
	for _, item := range upcoming {
		items = append(items, upcomingContentToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ContentActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ContentActivity")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	activity, err := h.reportService.ContentActivity(ctx, principal, queryInt(r, "limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]activityEntryDTO, 0, len(activity))
	for _, item := range activity {
		items = append(items, activityEntryToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WeeklyReport")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	digest, err := h.reportService.WeeklyReport(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "weekly report failed", "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeklyReportToDTO(digest))
}
