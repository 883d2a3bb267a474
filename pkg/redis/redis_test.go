package redis

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rejects an empty URL", func(t *testing.T) {
		t.Parallel()

		client, err := Open(ctx, "")
		require.ErrorIs(t, err, ErrEmptyConnectionURL)
		require.Nil(t, client)
	})

	t.Run("rejects non-redis schemes", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{
			"http://localhost:6379",
			"postgres://localhost:6379",
			"localhost:6379",
		} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrFailedToParseURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("rejects malformed URLs", func(t *testing.T) {
		t.Parallel()

		for _, url := range []string{
			"redis://localhost:notaport",
			"redis://localhost:6379/notanumber",
		} {
			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrFailedToParseURL, url)
			require.Nil(t, client)
		}
	})
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	check := Healthcheck(nil)
	require.ErrorIs(t, check(context.Background()), ErrHealthcheckFailed)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	t.Run("closes the client", func(t *testing.T) {
		t.Parallel()

		closer := &mockCloser{}
		require.NoError(t, Shutdown(closer)(context.Background()))
		require.True(t, closer.closed)
	})

	t.Run("propagates close errors", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("close error")
		closer := &mockCloser{err: wantErr}

		err := Shutdown(closer)(context.Background())
		require.ErrorIs(t, err, wantErr)
		require.True(t, closer.closed)
	})

	t.Run("is nil-safe", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, Shutdown(nil)(context.Background()))
	})
}

func TestWait(t *testing.T) {
	t.Parallel()

	t.Run("returns immediately on a cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := wait(ctx, 10*time.Second)

		require.ErrorIs(t, err, context.Canceled)
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("waits out the full duration", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		require.NoError(t, wait(context.Background(), 50*time.Millisecond))
		require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults match the timeline workload", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		require.Equal(t, 20, opts.poolSize)
		require.Equal(t, 4, opts.minIdleConns)
		require.Equal(t, 5*time.Minute, opts.maxIdleTime)
		require.Equal(t, 30*time.Minute, opts.maxActiveTime)
		require.Equal(t, 3, opts.retryAttempts)
		require.Equal(t, 2*time.Second, opts.retryInterval)
		require.Equal(t, 3*time.Second, opts.readTimeout)
		require.Equal(t, 3*time.Second, opts.writeTimeout)
		require.Equal(t, 5*time.Second, opts.dialTimeout)
	})

	t.Run("options override defaults", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		WithPoolSize(40)(opts)
		WithMinIdleConns(8)(opts)
		WithMaxIdleTime(time.Minute)(opts)
		WithMaxActiveTime(time.Hour)(opts)
		WithRetry(5, time.Second)(opts)
		WithReadTimeout(time.Second)(opts)
		WithWriteTimeout(2 * time.Second)(opts)
		WithDialTimeout(4 * time.Second)(opts)

		require.Equal(t, 40, opts.poolSize)
		require.Equal(t, 8, opts.minIdleConns)
		require.Equal(t, time.Minute, opts.maxIdleTime)
		require.Equal(t, time.Hour, opts.maxActiveTime)
		require.Equal(t, 5, opts.retryAttempts)
		require.Equal(t, time.Second, opts.retryInterval)
		require.Equal(t, time.Second, opts.readTimeout)
		require.Equal(t, 2*time.Second, opts.writeTimeout)
		require.Equal(t, 4*time.Second, opts.dialTimeout)
	})
}

// mockCloser is a test double for io.Closer.
type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

var _ io.Closer = (*mockCloser)(nil)
