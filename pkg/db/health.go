package db

import (
	"context"
	"time"
)

// probeQuery is the statement issued by health probes. It exercises the full
// round trip through the live handle without touching any table.
const probeQuery = "select 1"

// PoolSnapshot describes connection pool utilization at a point in time.
type PoolSnapshot struct {
	Active int32 `json:"active"`
	Idle   int32 `json:"idle"`
	Total  int32 `json:"total"`
}

// HealthResult is the outcome of a single health probe. Probes report
// failure through the Healthy flag and Error message rather than an error
// return, so monitoring loops can treat every probe uniformly.
type HealthResult struct {
	Healthy        bool         `json:"healthy"`
	Timestamp      time.Time    `json:"timestamp"`
	ResponseTimeMs int64        `json:"response_time_ms"`
	Pool           PoolSnapshot `json:"pool"`
	Error          string       `json:"error,omitempty"`
}

// Status is a point-in-time connection snapshot. It is produced without any
// I/O; Error carries over from the most recent health probe, if any.
type Status struct {
	Connected bool      `json:"connected"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// Probe issues the probe query through q, racing it against the given
// timeout. It never returns an error: a failed query, an expired timer, and
// a cancelled context all produce an unhealthy result with the cause in the
// Error field.
//
// When the timer wins, the in-flight query is abandoned, not interrupted;
// its eventual completion is discarded. capacity is the configured pool
// ceiling, used to derive the pool snapshot when q does not expose live
// counts.
func Probe(ctx context.Context, q Querier, timeout time.Duration, capacity int32) HealthResult {
	start := time.Now()

	done := make(chan error, 1)
	go func() {
		done <- q.Exec(ctx, probeQuery)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return unhealthyResult(err.Error(), elapsedMs(start), snapshotFor(q, capacity))
		}
		return HealthResult{
			Healthy:        true,
			Timestamp:      time.Now().UTC(),
			ResponseTimeMs: elapsedMs(start),
			Pool:           snapshotFor(q, capacity),
		}
	case <-timer.C:
		return unhealthyResult("health check timed out", elapsedMs(start), snapshotFor(q, capacity))
	case <-ctx.Done():
		return unhealthyResult(ctx.Err().Error(), elapsedMs(start), snapshotFor(q, capacity))
	}
}

// snapshotFor prefers live pool counters when the querier exposes them and
// falls back to a capacity-derived estimate otherwise.
func snapshotFor(q Querier, capacity int32) PoolSnapshot {
	if stater, ok := q.(PoolStater); ok {
		return stater.PoolStat()
	}
	return capacitySnapshot(capacity)
}

// capacitySnapshot estimates utilization from the configured ceiling alone:
// the probe itself occupies one connection, the rest are assumed idle.
func capacitySnapshot(capacity int32) PoolSnapshot {
	if capacity < 1 {
		capacity = 1
	}
	return PoolSnapshot{
		Active: 1,
		Idle:   capacity - 1,
		Total:  capacity,
	}
}

func unhealthyResult(cause string, responseMs int64, pool PoolSnapshot) HealthResult {
	return HealthResult{
		Healthy:        false,
		Timestamp:      time.Now().UTC(),
		ResponseTimeMs: responseMs,
		Pool:           pool,
		Error:          cause,
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
