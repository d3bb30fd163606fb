package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/panelcentral/backoffice/internal/domain/pool"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func (h *Handler) CreatePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPoolRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	deadline, err := parseTimeUTC(req.Deadline)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches := make([]usecase.PoolMatchInput, 0, len(req.Matches))
	for _, m := range req.Matches {
		kickoff, err := parseTimeUTC(m.KickoffAt)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		matches = append(matches, usecase.PoolMatchInput{
			FixtureID: m.FixtureID,
			Sport:     m.Sport,
			League:    m.League,
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			HomeLogo:  m.HomeLogo,
			AwayLogo:  m.AwayLogo,
			KickoffAt: kickoff,
		})
	}

	created, err := h.poolService.Create(ctx, usecase.CreatePoolInput{
		Actor:       principal,
		Name:        req.Name,
		Description: req.Description,
		Sport:       req.Sport,
		Deadline:    deadline,
		Matches:     matches,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create pool failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, poolToDTO(created))
}

func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPools")
	defer span.End()

	pools, err := h.poolService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]poolSummaryDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolSummaryToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.poolService.Get(ctx, principal, poolID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, poolDetailToDTO(ctx, detail))
}

func (h *Handler) JoinPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinPool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.poolService.Join(ctx, principal, poolID); err != nil {
		h.logger.WarnContext(ctx, "join pool failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"joined": true})
}

func (h *Handler) SubmitPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req submitPredictionsRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks := make(map[int64]pool.Pick, len(req.Picks))
	for rawMatchID, rawPick := range req.Picks {
		matchID, err := strconv.ParseInt(rawMatchID, 10, 64)
		if err != nil || matchID <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid match id %q", usecase.ErrInvalidInput, rawMatchID))
			return
		}
		picks[matchID] = pool.Pick(rawPick)
	}

	saved, skipped, err := h.poolService.SubmitPredictions(ctx, usecase.SubmitPredictionsInput{
		Actor:  principal,
		PoolID: poolID,
		Picks:  picks,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit predictions failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submitPredictionsResponseDTO{Saved: saved, Skipped: skipped})
}

func (h *Handler) RefreshPoolScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshPoolScores")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.poolService.RefreshScores(ctx, principal, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh pool scores failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		PoolID:    result.PoolID,
		Updated:   result.Updated,
		Failed:    result.Failed,
		Skipped:   result.Skipped,
		Finalized: result.Finalized,
	})
}

func (h *Handler) PoolStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PoolStandings")
	defer span.End()

	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.poolService.Standings(ctx, poolID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingRowDTO{
			Rank:      row.Rank,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Points:    row.Points,
			Correct:   row.Correct,
			Evaluated: row.Evaluated,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ClosePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClosePool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.poolService.Close(ctx, principal, poolID); err != nil {
		h.logger.WarnContext(ctx, "close pool failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"closed": true})
}

func (h *Handler) DeletePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePool")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	poolID, err := pathID(r, "poolID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.poolService.Delete(ctx, principal, poolID); err != nil {
		h.logger.WarnContext(ctx, "delete pool failed", "user_id", principal.UserID, "pool_id", poolID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"deleted": true})
}
