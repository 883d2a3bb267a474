package health

import (
	"encoding/json"
	"net/http"
	"time"
)

// LivenessHandler returns an http.HandlerFunc that always responds healthy.
// Use for liveness probes that only need to know the process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &Response{
			Status:    StatusHealthy,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler returns an http.HandlerFunc that runs all provided checks
// and reports whether the service can accept traffic. Responses are always
// JSON; an unhealthy aggregate answers 503 with per-check detail intact.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := newConfig(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
