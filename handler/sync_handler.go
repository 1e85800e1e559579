package handler

import (
	"log/slog"
	"net/http"

	"article-store/domain"
	"article-store/service"

	"github.com/labstack/echo/v4"
)

// SyncHandler triggers topic synchronization over HTTP.
type SyncHandler struct {
	sync   service.SyncService
	logger *slog.Logger
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(sync service.SyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		logger: logger,
	}
}

// SyncTopic handles POST /v1/sync/:topic. The request blocks until the topic
// sync finishes and returns the aggregate summary.
func (h *SyncHandler) SyncTopic(c echo.Context) error {
	topic := c.Param("topic")
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic is required")
	}

	ctx := c.Request().Context()

	summary, err := h.sync.SyncTopic(ctx, topic)
	if err != nil {
		if domain.IsCancellation(err) {
			// The client went away mid-sync; committed items stay committed.
			h.logger.WarnContext(ctx, "sync interrupted by client disconnect",
				"topic", topic, "success", summary.Success)
			return err
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, summary)
}
