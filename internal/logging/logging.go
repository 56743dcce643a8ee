package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a *slog.Logger writing to stderr and optionally to logFile.
// format "text" selects the human-readable handler; anything else is JSON.
// It also sets the logger as the slog default so package-level slog calls work.
// The returned cleanup func closes the log file if one was opened; callers must
// defer it.
func New(level, format, logFile string) (*slog.Logger, func(), error) {
	return newLogger(os.Stderr, level, format, logFile)
}

func newLogger(stderr io.Writer, level, format, logFile string) (*slog.Logger, func(), error) {
	writers := []io.Writer{stderr}
	cleanup := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, f)
		cleanup = func() { _ = f.Close() }
	}

	w := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(handler).With("app", "groupr")
	slog.SetDefault(logger)
	return logger, cleanup, nil
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
