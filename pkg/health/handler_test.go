package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbithammer/parasocial/pkg/health"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) health.Response {
	t.Helper()

	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return resp
}

func TestLivenessHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.Equal(t, health.StatusHealthy, resp.Status)
	require.False(t, resp.Timestamp.IsZero())
}

func TestReadinessHandler(t *testing.T) {
	t.Parallel()

	t.Run("reports healthy when all checks pass", func(t *testing.T) {
		t.Parallel()

		handler := health.ReadinessHandler(health.Checks{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return nil },
		})

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeResponse(t, rec)
		require.Equal(t, health.StatusHealthy, resp.Status)
		require.Len(t, resp.Checks, 2)
		for name, check := range resp.Checks {
			require.Equal(t, health.StatusHealthy, check.Status, name)
			require.GreaterOrEqual(t, check.ResponseTimeMs, int64(0), name)
			require.Empty(t, check.Error, name)
		}
	})

	t.Run("reports unhealthy when any check fails", func(t *testing.T) {
		t.Parallel()

		handler := health.ReadinessHandler(health.Checks{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})

		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		resp := decodeResponse(t, rec)
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, health.StatusHealthy, resp.Checks["postgres"].Status)
		require.Equal(t, health.StatusUnhealthy, resp.Checks["redis"].Status)
		require.Contains(t, resp.Checks["redis"].Error, "connection refused")
	})

	t.Run("runs checks in parallel", func(t *testing.T) {
		t.Parallel()

		slow := func(context.Context) error {
			time.Sleep(100 * time.Millisecond)
			return nil
		}
		handler := health.ReadinessHandler(health.Checks{
			"first":  slow,
			"second": slow,
			"third":  slow,
		})

		start := time.Now()
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Less(t, time.Since(start), 250*time.Millisecond, "checks must not run serially")
	})

	t.Run("marks checks that exceed the shared deadline", func(t *testing.T) {
		t.Parallel()

		handler := health.ReadinessHandler(health.Checks{
			"hung": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(25*time.Millisecond))

		start := time.Now()
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Less(t, time.Since(start), 500*time.Millisecond)

		resp := decodeResponse(t, rec)
		require.Equal(t, health.ErrCheckTimeout.Error(), resp.Checks["hung"].Error)
	})

	t.Run("is healthy with no checks registered", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.ReadinessHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, health.StatusHealthy, decodeResponse(t, rec).Status)
	})
}
