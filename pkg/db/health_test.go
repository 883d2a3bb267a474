package db_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orbithammer/parasocial/pkg/db"
)

func TestProbe(t *testing.T) {
	t.Parallel()

	t.Run("returns healthy on a successful query", func(t *testing.T) {
		t.Parallel()

		res := db.Probe(context.Background(), &fakeClient{}, time.Second, 10)
		require.True(t, res.Healthy)
		require.Empty(t, res.Error)
		require.GreaterOrEqual(t, res.ResponseTimeMs, int64(0))
		require.Equal(t, db.PoolSnapshot{Active: 1, Idle: 9, Total: 10}, res.Pool)
		require.WithinDuration(t, time.Now(), res.Timestamp, time.Second)
	})

	t.Run("reports the query error instead of returning it", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			execFn: func(context.Context, string) error { return errors.New("relation does not exist") },
		}

		res := db.Probe(context.Background(), client, time.Second, 10)
		require.False(t, res.Healthy)
		require.Contains(t, res.Error, "relation does not exist")
	})

	t.Run("abandons a hung query at the timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		client := &fakeClient{
			execFn: func(context.Context, string) error {
				<-release
				return nil
			},
		}

		start := time.Now()
		res := db.Probe(context.Background(), client, 25*time.Millisecond, 10)

		require.False(t, res.Healthy)
		require.Equal(t, "health check timed out", res.Error)
		require.Less(t, time.Since(start), 500*time.Millisecond, "timeout must not wait for the query")
	})

	t.Run("reports context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := &fakeClient{
			execFn: func(ctx context.Context, _ string) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}

		res := db.Probe(ctx, client, time.Second, 10)
		require.False(t, res.Healthy)
		require.Contains(t, res.Error, "context canceled")
	})

	t.Run("uses live pool counters when exposed", func(t *testing.T) {
		t.Parallel()

		client := &statClient{stat: db.PoolSnapshot{Active: 2, Idle: 3, Total: 5}}

		res := db.Probe(context.Background(), client, time.Second, 99)
		require.Equal(t, db.PoolSnapshot{Active: 2, Idle: 3, Total: 5}, res.Pool)
	})

	t.Run("clamps the capacity estimate to at least one", func(t *testing.T) {
		t.Parallel()

		res := db.Probe(context.Background(), &fakeClient{}, time.Second, 0)
		require.Equal(t, db.PoolSnapshot{Active: 1, Idle: 0, Total: 1}, res.Pool)
	})
}

func TestHealthResult_JSON(t *testing.T) {
	t.Parallel()

	t.Run("omits the error field when healthy", func(t *testing.T) {
		t.Parallel()

		res := db.Probe(context.Background(), &fakeClient{}, time.Second, 10)

		data, err := json.Marshal(res)
		require.NoError(t, err)
		require.NotContains(t, string(data), `"error"`)
		require.Contains(t, string(data), `"healthy":true`)
		require.Contains(t, string(data), `"pool"`)
	})

	t.Run("includes the cause when unhealthy", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			execFn: func(context.Context, string) error { return errors.New("boom") },
		}
		res := db.Probe(context.Background(), client, time.Second, 10)

		data, err := json.Marshal(res)
		require.NoError(t, err)
		require.Contains(t, string(data), `"healthy":false`)
		require.Contains(t, string(data), `"error":"boom"`)
	})
}
