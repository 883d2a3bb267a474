// Package middlewares provides HTTP middleware for the platform's services.
//
// # Request ID
//
// RequestID assigns a unique ID to each request for tracing. It preserves
// IDs arriving on upstream headers and generates a UUID otherwise:
//
//	r := chi.NewRouter()
//	r.Use(middlewares.RequestID())
//
// Pair it with RequestIDExtractor so every log record carries the ID:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//
// # Logging
//
// Logging writes one structured line per completed request. Because the
// line goes through the injected slog logger, request IDs and Sentry
// fan-out apply to it like any other record:
//
//	r.Use(middlewares.Logging(log, middlewares.WithLoggingSkipPaths("/livez")))
//
// # Recover
//
// Recover catches handler panics, logs them with the request context, and
// answers 500 instead of dropping the connection:
//
//	r.Use(middlewares.Recover(log))
//
// All middlewares are standard func(http.Handler) http.Handler and work
// with any router.
package middlewares
