// Package db manages the PostgreSQL connection lifecycle for the application.
//
// This package wraps [github.com/jackc/pgx/v5/pgxpool] behind a [Manager]
// that owns connection state end to end: establishing the connection with a
// timeout, retrying with exponential backoff during startup, probing health,
// and tearing the connection down on shutdown.
//
// # Features
//
//   - Explicit connection state machine (disconnected, connecting, connected, failed)
//   - Idempotent connect and disconnect, safe under concurrent use
//   - Connection timeout enforced by racing the dial against a timer
//   - Startup retry logic with exponential backoff
//   - Health probes that report structured results instead of errors
//   - Health check closure compatible with standard health check interfaces
//   - Environment-based configuration for deployment convenience
//
// # Configuration
//
// All settings are loaded from environment variables:
//
//	DATABASE_URL                - PostgreSQL connection URL (required)
//	DATABASE_CONNECT_TIMEOUT_MS - Connection timeout in milliseconds (default: 30000)
//	DATABASE_QUERY_TIMEOUT_MS   - Query and probe timeout in milliseconds (default: 10000)
//	DATABASE_MAX_CONNS          - Maximum pool connections, 1-100 (default: 20)
//	APP_ENV                     - "development" enables verbose lifecycle logging
//
// # Usage
//
// Basic lifecycle management:
//
//	import (
//		"context"
//		"log"
//		"os"
//		"time"
//
//		"github.com/orbithammer/parasocial/pkg/db"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		cfg, err := db.ResolveConfig(os.LookupEnv)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		manager, err := db.NewManager(cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := manager.ConnectWithRetry(ctx, 3, time.Second); err != nil {
//			log.Fatal(err)
//		}
//		defer manager.Disconnect(ctx)
//	}
//
// A process-wide Manager resolved from the environment is available through
// [DefaultManager]; it is created lazily on first use and reused afterwards.
//
// # Health Checks
//
// [Manager.HealthCheck] probes the live connection and always returns a
// [HealthResult]; failures are encoded in the result rather than returned as
// errors. The [Healthcheck] function adapts a Manager to the
// func(context.Context) error shape health endpoints expect:
//
//	import (
//		"context"
//		"net/http"
//
//		"github.com/orbithammer/parasocial/pkg/db"
//	)
//
//	func readyHandler(manager *db.Manager) http.HandlerFunc {
//		healthFn := db.Healthcheck(manager)
//		return func(w http.ResponseWriter, r *http.Request) {
//			if err := healthFn(r.Context()); err != nil {
//				w.WriteHeader(http.StatusServiceUnavailable)
//				return
//			}
//			w.WriteHeader(http.StatusOK)
//		}
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//
//   - [ErrMissingConnString] - Connection string is empty
//   - [ErrInvalidConnString] - Connection string cannot be parsed
//   - [ErrMissingConfig] - Required environment variable is not set
//   - [ErrInvalidConfigValue] - Environment override fails validation
//   - [ErrConnectionFailed] - Connection attempt failed
//   - [ErrConnectTimeout] - Connection attempt exceeded the configured timeout
//   - [ErrRetriesExhausted] - All retry attempts failed
//   - [ErrDisconnectFailed] - Connection did not close cleanly
//   - [ErrHealthcheckFailed] - Health probe reported unhealthy
//   - [ErrNotConnected] - Operation requires a live connection
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package db
