package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StorageProbe is the slice of the storage surface the health check needs.
type StorageProbe interface {
	CountArticles(ctx context.Context) (int, error)
}

// HealthHandler reports liveness and storage reachability.
type HealthHandler struct {
	probe  StorageProbe
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(probe StorageProbe, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		probe:  probe,
		logger: logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Articles int    `json:"articles,omitempty"`
}

// Check handles GET /v1/health. Storage is probed through the read path; a
// failing probe reports degraded rather than an opaque error.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.probe.CountArticles(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "health probe failed to reach storage", "error", err)
		return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
	}

	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Articles: count})
}
