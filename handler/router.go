package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter assembles the echo server with all routes registered.
func NewRouter(articles *ArticleHandler, sync *SyncHandler, health *HealthHandler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	v1 := e.Group("/v1")

	v1.GET("/health", health.Check)

	v1.GET("/articles", articles.GetBySourceURL)
	v1.GET("/articles/search", articles.Search)
	v1.GET("/articles/:id", articles.GetByID)
	v1.POST("/articles/:id/viewed", articles.MarkViewed)
	v1.PUT("/articles/:id/bookmark", articles.SetBookmarked)
	v1.DELETE("/articles/:id", articles.Delete)

	v1.POST("/sync/:topic", sync.SyncTopic)
	v1.POST("/maintenance/remove-duplicates", articles.RemoveDuplicates)

	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil || v.Status < http.StatusInternalServerError {
				logger.InfoContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				logger.ErrorContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	})
}
