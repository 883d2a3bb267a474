package logger

import (
	"log/slog"
	"os"
)

// New creates the production logger: JSON records at Info level, with
// context-extracted attributes injected on every call.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(newContextHandler(h, extractors...))
}

// NewDevelopment creates a human-readable logger at Debug level. Verbose
// lifecycle logging (connection attempts, health probes) is only emitted at
// Debug, so development deployments use this factory.
func NewDevelopment(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(newContextHandler(h, extractors...))
}
