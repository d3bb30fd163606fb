package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/panelcentral/backoffice/internal/domain/content"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateContent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	business := strings.TrimSpace(r.PathValue("business"))

	var req generateContentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.contentService.Generate(ctx, usecase.GenerateContentInput{
		Actor:      principal,
		Business:   business,
		System:     req.System,
		Prompt:     req.Prompt,
		FormatType: req.FormatType,
		Input:      req.Input,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate content failed", "user_id", principal.UserID, "business", business, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contentEntryToDTO(entry, false))
}

func (h *Handler) ContentHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ContentHistory")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	query := r.URL.Query()
	entries, err := h.contentService.History(ctx, usecase.ContentHistoryInput{
		Actor:      principal,
		Business:   strings.TrimSpace(r.PathValue("business")),
		FormatType: strings.TrimSpace(query.Get("format_type")),
		Status:     content.EntryStatus(strings.TrimSpace(query.Get("status"))),
		Limit:      queryInt(r, "limit"),
		Offset:     queryInt(r, "offset"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]contentEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, contentEntryToDTO(entry, true))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetContentEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContentEntry")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.contentService.GetEntry(ctx, principal, strings.TrimSpace(r.PathValue("business")), entryID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contentEntryToDTO(entry, false))
}

func (h *Handler) DeleteContentEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteContentEntry")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	entryID, err := pathID(r, "entryID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	deleted, err := h.contentService.DeleteEntries(ctx, principal, strings.TrimSpace(r.PathValue("business")), []int64{entryID})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if deleted == 0 {
		writeError(ctx, w, fmt.Errorf("%w: content entry %d", usecase.ErrNotFound, entryID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ApproveContent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveContent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	business := strings.TrimSpace(r.PathValue("business"))

	var req approveContentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.contentService.Approve(ctx, principal, business, req.EntryID, req.Notes); err != nil {
		h.logger.WarnContext(ctx, "approve content failed", "user_id", principal.UserID, "entry_id", req.EntryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"approved": true})
}

func (h *Handler) ScheduleContent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleContent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	business := strings.TrimSpace(r.PathValue("business"))

	var req scheduleContentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	at, err := parseTimeUTC(req.At)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if at == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduled_at is required", usecase.ErrInvalidInput))
		return
	}

	if err := h.contentService.Schedule(ctx, usecase.ScheduleContentInput{
		Actor:    principal,
		Business: business,
		EntryID:  req.EntryID,
		At:       *at,
		Platform: req.Platform,
	}); err != nil {
		h.logger.WarnContext(ctx, "schedule content failed", "user_id", principal.UserID, "entry_id", req.EntryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"scheduled": true})
}

func (h *Handler) ContentCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ContentCalendar")
	defer span.End()

	business := strings.TrimSpace(r.PathValue("business"))
	from, err := parseTimeUTC(r.URL.Query().Get("from"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := parseTimeUTC(r.URL.Query().Get("to"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// Default to the next monthly window when the client sends no range.
	var fromAt, toAt time.Time
	if from != nil {
		fromAt = *from
	} else {
		fromAt = time.Now().UTC().AddDate(0, 0, -7)
	}
	if to != nil {
		toAt = *to
	} else {
		toAt = fromAt.AddDate(0, 1, 7)
	}

	entries, err := h.contentService.Calendar(ctx, business, fromAt, toAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]calendarItemDTO, 0, len(entries))
	for _, item := range entries {
		items = append(items, calendarItemToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeleteContentEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteContentEntries")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	business := strings.TrimSpace(r.PathValue("business"))

	var req deleteContentEntriesRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	deleted, err := h.contentService.DeleteEntries(ctx, principal, business, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "delete content entries failed", "user_id", principal.UserID, "business", business, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *Handler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIdeas")
	defer span.End()

	business := strings.TrimSpace(r.PathValue("business"))
	status := content.IdeaStatus(strings.TrimSpace(r.URL.Query().Get("status")))

	ideas, err := h.contentService.ListIdeas(ctx, business, status)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]ideaDTO, 0, len(ideas))
	for _, idea := range ideas {
		items = append(items, ideaToDTO(idea))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateIdeas")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	business := strings.TrimSpace(r.PathValue("business"))

	var req generateIdeasRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ideas, err := h.contentService.GenerateIdeas(ctx, usecase.GenerateIdeasInput{
		Actor:    principal,
		Business: business,
		System:   req.System,
		Prompt:   req.Prompt,
		Count:    req.Count,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "generate ideas failed", "user_id", principal.UserID, "business", business, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ideaDTO, 0, len(ideas))
	for _, idea := range ideas {
		items = append(items, ideaToDTO(idea))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UseIdea(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UseIdea")
	defer span.End()

	ideaID, err := pathID(r, "ideaID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req useIdeaRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	switch content.IdeaStatus(req.Status) {
	case content.IdeaStatusUsed:
		err = h.contentService.UseIdea(ctx, ideaID)
	case content.IdeaStatusDiscarded:
		err = h.contentService.DiscardIdea(ctx, ideaID)
	default:
		err = fmt.Errorf("%w: only the used and discarded transitions are supported", usecase.ErrInvalidInput)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"updated": true})
}
