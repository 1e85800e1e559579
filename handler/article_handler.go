package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"article-store/domain"
	"article-store/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ArticleHandler exposes the catalog over HTTP.
type ArticleHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(catalog service.CatalogService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// GetByID handles GET /v1/articles/:id.
func (h *ArticleHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}

	article, err := h.catalog.GetArticle(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, article)
}

// GetBySourceURL handles GET /v1/articles?source_url=<url>.
func (h *ArticleHandler) GetBySourceURL(c echo.Context) error {
	sourceURL := c.QueryParam("source_url")
	if sourceURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "source_url query parameter is required")
	}

	article, err := h.catalog.GetArticleBySourceURL(c.Request().Context(), sourceURL)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, article)
}

type searchResponse struct {
	Articles []*domain.Article `json:"articles"`
	Count    int               `json:"count"`
}

// Search handles GET /v1/articles/search?q=<term>.
func (h *ArticleHandler) Search(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q query parameter is required")
	}

	limit := 0
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	articles, err := h.catalog.SearchArticles(c.Request().Context(), term, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, searchResponse{Articles: articles, Count: len(articles)})
}

// MarkViewed handles POST /v1/articles/:id/viewed.
func (h *ArticleHandler) MarkViewed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}

	if err := h.catalog.MarkViewed(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

type bookmarkRequest struct {
	Bookmarked bool `json:"bookmarked"`
}

// SetBookmarked handles PUT /v1/articles/:id/bookmark.
func (h *ArticleHandler) SetBookmarked(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}

	var req bookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.catalog.SetBookmarked(c.Request().Context(), id, req.Bookmarked); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/articles/:id.
func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid article id")
	}

	if err := h.catalog.DeleteArticle(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	h.logger.InfoContext(c.Request().Context(), "article deleted", "article_id", id)

	return c.NoContent(http.StatusNoContent)
}

type removeDuplicatesResponse struct {
	Removed int64 `json:"removed"`
}

// RemoveDuplicates handles POST /v1/maintenance/remove-duplicates.
func (h *ArticleHandler) RemoveDuplicates(c echo.Context) error {
	removed, err := h.catalog.RemoveDuplicates(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, removeDuplicatesResponse{Removed: removed})
}

// httpError maps domain errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, domain.ErrArticleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	case errors.Is(err, domain.ErrInvalidIdentity), errors.Is(err, domain.ErrInvalidDocument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNetworkTimeout):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "remote source timed out")
	case errors.Is(err, domain.ErrRemoteNotFound), errors.Is(err, domain.ErrNetworkFailure):
		return echo.NewHTTPError(http.StatusBadGateway, "remote source unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
