package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Init creates a text logger writing to w, tags every record with a fresh
// run_id and installs it as the slog default. w is normally os.Stderr since
// stdout carries the report.
func Init(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
