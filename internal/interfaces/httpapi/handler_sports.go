package httpapi

import (
	"net/http"

	"github.com/panelcentral/backoffice/internal/usecase"
)

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	query := r.URL.Query()
	fixtures, err := h.sportsService.Fixtures(ctx, usecase.FixtureQuery{
		Sport:  query.Get("sport"),
		Date:   query.Get("date"),
		League: query.Get("league"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "sport", query.Get("sport"), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, fixture := range fixtures {
		items = append(items, fixtureToDTO(fixture))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
