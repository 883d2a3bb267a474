// Package health provides HTTP handlers for the platform's health probes.
//
// This package implements liveness and readiness endpoints compatible with
// Docker, Kubernetes, and third-party monitoring services. It aggregates the
// healthcheck closures exported by the db and redis packages.
//
// # Main Functions
//
// [LivenessHandler] provides an always-healthy endpoint for process liveness.
// [ReadinessHandler] executes a set of [Checks] and reports service readiness.
//
// # Features
//
//   - Named health checks with per-check status, latency, and error detail
//   - Parallel check execution under a shared configurable deadline
//   - JSON responses suitable for both probes and dashboards
//   - Compatible with any func(context.Context) error closure
//   - Works with any HTTP router (standard http.HandlerFunc)
//
// # Quick Start
//
// Register health endpoints on your router:
//
//	r.Get("/livez", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(manager),
//	    "redis":    redis.Healthcheck(client),
//	}))
//
// # Responses
//
// A readiness response reports the aggregate and each named check:
//
//	{
//	  "status": "unhealthy",
//	  "timestamp": "2026-08-21T10:15:04Z",
//	  "checks": {
//	    "postgres": {"status": "healthy", "response_time_ms": 2},
//	    "redis": {"status": "unhealthy", "response_time_ms": 5001, "error": "health: check timeout"}
//	  }
//	}
//
// The HTTP status is 200 when every check passes and 503 otherwise, so
// orchestrators can act on the code alone while dashboards read the body.
//
// # Configuration Options
//
// Configure the shared deadline and failure logging:
//
//	r.Get("/readyz", health.ReadinessHandler(checks,
//	    health.WithTimeout(3*time.Second),
//	    health.WithLogger(log),
//	))
//
// A check that exceeds the deadline reports [ErrCheckTimeout] as its error.
package health
