package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/orbithammer/parasocial/middlewares"
	"github.com/orbithammer/parasocial/pkg/db"
	"github.com/orbithammer/parasocial/pkg/health"
	"github.com/orbithammer/parasocial/pkg/logger"
	"github.com/orbithammer/parasocial/pkg/redis"
)

const (
	defaultAddr          = ":8080"
	defaultProbeInterval = 30 * time.Second
	shutdownTimeout      = 10 * time.Second
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appEnv := os.Getenv(db.EnvAppEnv)
	log := newLogger(appEnv)

	cfg, err := db.ResolveConfig(os.LookupEnv)
	if err != nil {
		return err
	}

	manager, err := db.NewManager(cfg, db.WithLogger(log))
	if err != nil {
		return err
	}

	if err := manager.ConnectWithRetry(ctx, 0, 0); err != nil {
		return err
	}

	checks := health.Checks{
		"postgres": db.Healthcheck(manager),
	}
	shutdownHooks := []func(context.Context) error{db.Shutdown(manager)}

	// The timeline cache is optional: development environments run without it.
	if url := os.Getenv("REDIS_URL"); url != "" {
		cache, err := redis.Open(ctx, url)
		if err != nil {
			return err
		}
		checks["redis"] = redis.Healthcheck(cache)
		shutdownHooks = append(shutdownHooks, redis.Shutdown(cache))
	}

	r := chi.NewRouter()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Logging(log, middlewares.WithLoggingSkipPaths("/livez")))
	r.Use(middlewares.Recover(log))
	r.Get("/livez", health.LivenessHandler())
	r.Get("/readyz", health.ReadinessHandler(checks, health.WithLogger(log)))
	r.Get("/healthz/db", dbHealthHandler(manager))
	r.Get("/statusz/db", dbStatusHandler(manager))

	scheduler, err := startProbeScheduler(manager, log)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:         listenAddr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", srv.Addr), slog.String("env", appEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	for _, hook := range shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}

// newLogger picks the logger for the deployment environment: human-readable
// debug output in development, Sentry-backed JSON when a DSN is configured,
// plain JSON otherwise.
func newLogger(appEnv string) *slog.Logger {
	extractor := middlewares.RequestIDExtractor()

	if appEnv == "development" {
		return logger.NewDevelopment(extractor)
	}
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		return logger.NewWithSentry(logger.SentryConfig{
			DSN:         dsn,
			Environment: appEnv,
			MinLevel:    slog.LevelWarn,
		}, extractor)
	}
	return logger.New(extractor)
}

// startProbeScheduler runs a background health probe on a fixed interval so
// connection failures surface in logs before a reader hits them.
func startProbeScheduler(manager *db.Manager, log *slog.Logger) (*cron.Cron, error) {
	interval := defaultProbeInterval
	if raw := os.Getenv("HEALTHCHECK_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid HEALTHCHECK_INTERVAL %q: want a positive duration", raw)
		}
		interval = d
	}

	scheduler := cron.New()
	scheduler.Schedule(cron.Every(interval), cron.FuncJob(func() {
		res := manager.HealthCheck(context.Background())
		if !res.Healthy {
			log.Warn("database health probe failed",
				slog.String("error", res.Error),
				slog.Int64("response_time_ms", res.ResponseTimeMs),
			)
			return
		}
		log.Debug("database health probe ok",
			slog.Int64("response_time_ms", res.ResponseTimeMs),
			slog.Int("pool_active", int(res.Pool.Active)),
			slog.Int("pool_idle", int(res.Pool.Idle)),
		)
	}))
	scheduler.Start()
	return scheduler, nil
}

// dbHealthHandler serves the full probe result. Concurrent requests share a
// single probe through singleflight so dashboards cannot stampede the
// database.
func dbHealthHandler(manager *db.Manager) http.HandlerFunc {
	var group singleflight.Group

	return func(w http.ResponseWriter, r *http.Request) {
		// The probe outlives whichever request triggered it; a caller
		// disconnecting must not cancel the shared result.
		ctx := context.WithoutCancel(r.Context())
		v, _, _ := group.Do("db", func() (any, error) {
			return manager.HealthCheck(ctx), nil
		})
		res := v.(db.HealthResult)

		status := http.StatusOK
		if !res.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, res)
	}
}

// dbStatusHandler reports the point-in-time connection snapshot without
// touching the database.
func dbStatusHandler(manager *db.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, manager.Status())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func listenAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	return defaultAddr
}
