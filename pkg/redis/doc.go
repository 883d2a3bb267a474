// Package redis provides the cache connection backing timelines and
// broadcast fan-out.
//
// This package wraps [github.com/redis/go-redis/v9] to provide connection
// pooling, startup retry, health checks, and graceful shutdown with defaults
// tuned for the read-heavy timeline workload.
//
// # Features
//
//   - Connection pooling with configurable limits and timeouts
//   - Startup retry with linear backoff
//   - Health check function compatible with standard health check interfaces
//   - Support for redis:// and rediss:// (TLS) URL schemes
//   - Graceful shutdown hook
//
// # Configuration
//
// All settings are configured via functional options:
//
//   - WithPoolSize(n int) — Maximum number of connections (default: 20)
//   - WithMinIdleConns(n int) — Minimum idle connections (default: 4)
//   - WithMaxIdleTime(d time.Duration) — Maximum connection idle time (default: 5m)
//   - WithMaxActiveTime(d time.Duration) — Maximum connection lifetime (default: 30m)
//   - WithRetry(attempts int, interval time.Duration) — Retry attempts and interval (default: 3 attempts, 2s)
//   - WithReadTimeout(d time.Duration) — Read operation timeout (default: 3s)
//   - WithWriteTimeout(d time.Duration) — Write operation timeout (default: 3s)
//   - WithDialTimeout(d time.Duration) — Connection dial timeout (default: 5s)
//
// # Usage
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/orbithammer/parasocial/pkg/redis"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Close()
//	}
//
// # Health Checks
//
// The [Healthcheck] function returns a closure suitable for readiness
// endpoints; see the health package for aggregation.
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//
//   - [ErrEmptyConnectionURL] - Empty connection URL provided
//   - [ErrFailedToParseURL] - Invalid connection URL format or scheme
//   - [ErrConnectionFailed] - Connection failed after all retry attempts
//   - [ErrHealthcheckFailed] - Cache ping failed
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package redis
