package logger

import (
	"io"
	"log/slog"
)

// NewNope creates a no-op logger that discards everything. Components that
// accept an optional logger use it as their default.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
