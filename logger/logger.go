// ABOUTME: This file provides the shared slog-based JSON logger
// ABOUTME: Output format uses lowercase level, msg and time keys
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const serviceName = "article-store"

// New creates the service logger writing JSON to stdout.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a logger with a specific output writer.
func NewWithWriter(output io.Writer, level string) *slog.Logger {
	options := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Lowercase level values keep log aggregation consistent.
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: slog.LevelKey, Value: slog.StringValue(strings.ToLower(lvl.String()))}
				}
			}
			return a
		},
	}

	handler := slog.NewJSONHandler(output, options)

	return slog.New(handler).With("service", serviceName)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
