package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Default retry policy for ConnectWithRetry when the caller passes
// non-positive values.
const (
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = time.Second
)

// Manager owns the lifecycle of one database connection: it establishes the
// underlying client, enforces the connection timeout, retries with backoff,
// probes health, and tears the connection down. The live client handle is
// owned exclusively by its Manager; no other component holds a reference.
//
// State-changing operations (Connect, Disconnect, ConnectWithRetry) are
// serialized internally, so the state machine never observes two concurrent
// transitions. HealthCheck and Status may be called concurrently from any
// number of goroutines.
type Manager struct {
	cfg       Config
	log       *slog.Logger
	newClient ClientFactory

	// opMu serializes state-changing operations end to end.
	opMu sync.Mutex

	// mu guards the fields below. HealthCheck holds the read side for the
	// whole probe so Disconnect cannot null the handle mid-probe.
	mu         sync.RWMutex
	state      State
	client     Client
	generation uint64

	// probeMu guards the error carried over from the most recent health
	// check into Status snapshots.
	probeMu      sync.Mutex
	lastProbeErr string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for lifecycle events. Default: no-op.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClientFactory overrides how underlying clients are constructed.
// Intended for tests; the default factory produces pgx-backed clients.
func WithClientFactory(factory ClientFactory) Option {
	return func(m *Manager) {
		if factory != nil {
			m.newClient = factory
		}
	}
}

// NewManager creates a Manager for the given configuration.
// The configuration is validated and copied; the Manager starts Disconnected
// and opens nothing until Connect is called.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:       cfg,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		newClient: newPgxClient,
		state:     StateDisconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Connect establishes the connection. Calling it while already connected is
// a no-op; the established handle is reused and the underlying client is not
// touched.
//
// The client's own connect operation races a timer set to the configured
// connection timeout. Whichever settles first wins: on success the Manager
// holds the live handle and is Connected; on dial failure, timeout, or
// context cancellation it is Failed and the error is ErrConnectionFailed
// joined with the cause (ErrConnectTimeout when the timer won). The timeout
// abandons the attempt rather than interrupting the dial; a late completion
// of an abandoned attempt closes its own client and cannot resurrect a
// handle into the Manager.
func (m *Manager) Connect(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.state == StateConnected {
		m.mu.Unlock()
		return nil
	}
	m.generation++
	gen := m.generation
	m.state = StateConnecting
	m.mu.Unlock()

	if m.cfg.VerboseLogging {
		m.log.DebugContext(ctx, "connecting to database",
			slog.String("host", m.cfg.Host),
			slog.Int("port", m.cfg.Port),
			slog.String("database", m.cfg.Database),
			slog.Duration("timeout", m.cfg.ConnectTimeout),
		)
	}

	client := m.newClient(m.cfg)

	// Race the dial against the connection timeout: two concurrent tasks,
	// one winner. The dial goroutine adopts the handle itself so that a
	// completion racing the timer resolves atomically against the state.
	dial := make(chan error, 1)
	go func() {
		err := client.Connect(ctx)
		if err == nil && !m.adopt(gen, client) {
			// Abandoned while dialing: the timer already reported failure
			// and the Manager moved on. Dispose of the orphan handle.
			_ = client.Close(context.Background())
		}
		dial <- err
	}()

	timer := time.NewTimer(m.cfg.ConnectTimeout)
	defer timer.Stop()

	select {
	case err := <-dial:
		if err != nil {
			m.abandon(gen)
			m.log.WarnContext(ctx, "database connection failed",
				slog.String("host", m.cfg.Host),
				slog.String("error", err.Error()),
			)
			return errors.Join(ErrConnectionFailed, err)
		}
		m.log.InfoContext(ctx, "database connected",
			slog.String("host", m.cfg.Host),
			slog.Int("port", m.cfg.Port),
			slog.String("database", m.cfg.Database),
		)
		return nil
	case <-timer.C:
		if !m.abandon(gen) {
			// The dial adopted the handle a moment before the timer fired;
			// the connection is live.
			return <-dial
		}
		m.log.WarnContext(ctx, "database connection timed out",
			slog.String("host", m.cfg.Host),
			slog.Duration("timeout", m.cfg.ConnectTimeout),
		)
		return errors.Join(ErrConnectionFailed, ErrConnectTimeout)
	case <-ctx.Done():
		if !m.abandon(gen) {
			return <-dial
		}
		return errors.Join(ErrConnectionFailed, ctx.Err())
	}
}

// adopt installs the handle for the given attempt generation. It fails when
// the attempt has been abandoned or superseded, in which case the caller
// must dispose of the client itself.
func (m *Manager) adopt(gen uint64, client Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen || m.state != StateConnecting {
		return false
	}
	m.client = client
	m.state = StateConnected
	return true
}

// abandon marks the given attempt failed. It reports false when the attempt
// already completed (adopted) or was superseded.
func (m *Manager) abandon(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen || m.state != StateConnecting {
		return false
	}
	m.client = nil
	m.state = StateFailed
	return true
}

// ConnectWithRetry calls Connect, sleeping baseDelay * 2^(attempt-1) between
// failed attempts (exponential backoff, attempt is 1-indexed). Non-positive
// arguments take the defaults: 3 attempts, 1 second base delay.
//
// Configuration never changes between attempts, so only transient dial
// failures benefit from retrying. Exhausting all attempts fails with
// ErrRetriesExhausted joined with the last underlying error; the Manager is
// left Failed. Context cancellation during a backoff sleep aborts the loop
// with the context error.
func (m *Manager) ConnectWithRetry(ctx context.Context, attempts int, baseDelay time.Duration) error {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := m.Connect(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := baseDelay * time.Duration(1<<(attempt-1))
		m.log.WarnContext(ctx, "retrying database connection",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if waitErr := wait(ctx, delay); waitErr != nil {
			return waitErr
		}
	}

	return errors.Join(ErrRetriesExhausted, fmt.Errorf("after %d attempts", attempts), lastErr)
}

// Disconnect closes the live connection. Calling it with no live handle is a
// no-op. The handle reference is cleared and the state reset to Disconnected
// before the close outcome is known: a close failure is reported as
// ErrDisconnectFailed but never leaves a half-closed handle referenced,
// which would poison subsequent Connect calls.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	client := m.client
	m.client = nil
	if client != nil || m.state == StateConnected {
		m.state = StateDisconnected
	}
	m.mu.Unlock()

	if client == nil {
		return nil
	}

	if err := client.Close(ctx); err != nil {
		m.log.WarnContext(ctx, "database close failed", slog.String("error", err.Error()))
		return errors.Join(ErrDisconnectFailed, err)
	}

	m.log.InfoContext(ctx, "database connection closed")
	return nil
}

// HealthCheck probes the live connection and reports a structured result.
// It never returns an error: failure, timeout, and "not connected" are all
// encoded in the result so monitoring loops need no error handling. The
// probe holds a read guard for its duration, so a concurrent Disconnect
// cannot null the handle mid-probe.
func (m *Manager) HealthCheck(ctx context.Context) HealthResult {
	m.mu.RLock()
	if m.client == nil || m.state != StateConnected {
		m.mu.RUnlock()
		res := unhealthyResult("not connected", 0, m.capacitySnapshot())
		m.recordProbe(res)
		return res
	}
	client := m.client
	res := Probe(ctx, client, m.cfg.QueryTimeout, m.cfg.MaxConns)
	m.mu.RUnlock()

	if m.cfg.VerboseLogging {
		m.log.DebugContext(ctx, "health probe",
			slog.Bool("healthy", res.Healthy),
			slog.Int64("response_time_ms", res.ResponseTimeMs),
			slog.String("error", res.Error),
		)
	}
	m.recordProbe(res)
	return res
}

// Status returns a point-in-time connection snapshot without performing any
// I/O. The error, if any, is carried over from the most recent health check.
func (m *Manager) Status() Status {
	m.mu.RLock()
	connected := m.state == StateConnected
	m.mu.RUnlock()

	m.probeMu.Lock()
	probeErr := m.lastProbeErr
	m.probeMu.Unlock()

	return Status{
		Connected: connected,
		Timestamp: time.Now().UTC(),
		Error:     probeErr,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsConnected reports whether a live connection is held.
func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// Config returns a copy of the Manager's configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) recordProbe(res HealthResult) {
	m.probeMu.Lock()
	m.lastProbeErr = res.Error
	m.probeMu.Unlock()
}

func (m *Manager) capacitySnapshot() PoolSnapshot {
	return capacitySnapshot(m.cfg.MaxConns)
}

// wait sleeps for d, returning early with the context error if cancelled.
func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
