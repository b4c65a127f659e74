// Package observability provides the run logger and run metrics.
package observability

import (
	"io"
	"log/slog"
)

// NewLogger builds the run logger. Verbose lowers the level to debug,
// quiet raises it to error; the flags are mutually exclusive at the CLI
// level.
func NewLogger(w io.Writer, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo

	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
