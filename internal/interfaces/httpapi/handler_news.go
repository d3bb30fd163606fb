package httpapi

import (
	"fmt"
	"net/http"

	"github.com/panelcentral/backoffice/internal/domain/news"
	"github.com/panelcentral/backoffice/internal/usecase"
)

func (h *Handler) SearchNews(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchNews")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req searchNewsRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scope := news.Scope(req.Scope)
	if scope == "" {
		scope = news.ScopeBoth
	}

	articles, err := h.newsService.Search(ctx, news.Query{
		Term:     req.Query,
		Category: req.Category,
		Scope:    scope,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "news search failed", "user_id", principal.UserID, "term", req.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]newsArticleDTO, 0, len(articles))
	for _, article := range articles {
		items = append(items, newsArticleToDTO(article))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
