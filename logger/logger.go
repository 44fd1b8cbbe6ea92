// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Config struct {
	// DataDir holds chat.log when File is empty.
	DataDir string
	File    string
	Level   string
	Format  string
}

// Init initializes the global slog logger and returns a function that
// closes the log file. The terminal belongs to the UI, so logs never go to
// stdout: when no file can be opened they are discarded.
// LOG_FILE, LOG_LEVEL and LOG_FORMAT env vars override cfg.
func Init(cfg Config) func() {
	level := parseLevel(firstNonEmpty(os.Getenv("LOG_LEVEL"), cfg.Level))
	opts := &slog.HandlerOptions{Level: level}

	var w io.Writer = io.Discard
	closeFn := func() {}

	logFile := firstNonEmpty(os.Getenv("LOG_FILE"), cfg.File)
	if logFile == "" && cfg.DataDir != "" {
		logFile = filepath.Join(cfg.DataDir, "chat.log")
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				w = f
				closeFn = func() { _ = f.Close() }
			}
		}
	}

	var handler slog.Handler
	if strings.EqualFold(firstNonEmpty(os.Getenv("LOG_FORMAT"), cfg.Format), "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
	return closeFn
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRequestLogger creates a logger tagged with a fresh requestId and
// returns the id so it can travel with the outgoing request.
func NewRequestLogger() (*slog.Logger, string) {
	id := uuid.Must(uuid.NewV7()).String()
	return slog.With("requestId", id), id
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
