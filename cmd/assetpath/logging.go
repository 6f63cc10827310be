package main

import (
	"io"
	"log/slog"
)

// newLogger builds the CLI logger: info by default, errors only with quiet,
// debug with verbose. quiet wins when both are set.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
