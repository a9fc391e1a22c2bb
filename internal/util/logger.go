// internal/util/logger.go
package util

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger *slog.Logger

// InitLogger initializes the global structured logger.
// It sets up a JSON handler on stdout at the given level ("debug", "info", "warn", "error").
func InitLogger(level string) {
	logger = NewLogger(os.Stdout, level)
	slog.SetDefault(logger) // Set as default logger for convenience
}

// NewLogger builds a JSON logger writing to w. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true, // Add file and line number to logs
		Level:     parseLevel(level),
	})
	return slog.New(handler)
}

// GetLogger returns the initialized global logger.
func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger("info") // Initialize if not already initialized (should be called explicitly at app start)
	}
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
