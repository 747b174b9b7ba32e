package main

import (
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/tsawler/wordhtml/internal/config"
)

// newLogger builds the CLI logger. --verbose and --quiet override level.
func newLogger(w io.Writer, s config.Settings, level slog.Level, f commonFlags) *slog.Logger {
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if s.JSONLogs {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota. The quota
// message is logged only in verbose mode.
func setMaxProcs(logger *slog.Logger) {
	// maxprocs.Set fails only on an invalid GOMAXPROCS variable, in which
	// case the runtime default stands.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}
