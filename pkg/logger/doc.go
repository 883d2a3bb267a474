// Package logger provides the application's structured logging built on
// log/slog, with per-call context extraction and optional Sentry forwarding.
//
// # Overview
//
// The package provides:
//   - [New] for production: JSON records at Info level
//   - [NewDevelopment] for local work: text records at Debug level, where
//     verbose database lifecycle logging becomes visible
//   - [NewWithSentry] for deployments with error tracking
//   - [NewNope] as the no-op default for components that accept a logger
//
// Every factory accepts [ContextExtractor] functions that inject
// request-scoped attributes into each record.
//
// # Basic Usage
//
// Create a logger with a request-ID extractor:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//
//	ctx := middlewares.WithRequestID(context.Background(), "abc-123")
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//	// Output: {"level":"INFO","msg":"request processed","status":200,"request_id":"abc-123"}
//
// # Sentry Integration
//
// For production error tracking:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: os.Getenv("APP_ENV"),
//		MinLevel:    slog.LevelWarn,
//	})
//
// Errors create Sentry issues; warnings are forwarded as logs for context.
// An empty DSN falls back to stdout-only logging, so the same code path is
// safe in development and production.
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute from a context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so request-scoped values stay fresh.
// Return false to skip the attribute for that record.
package logger
