package db

import (
	"context"
	"errors"
	"fmt"
)

// Healthcheck returns a closure that probes database connectivity for health
// endpoints. Compatible with standard health check interfaces that expect
// func(context.Context) error.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return ErrHealthcheckFailed
		}
		if res := m.HealthCheck(ctx); !res.Healthy {
			return errors.Join(ErrHealthcheckFailed, fmt.Errorf("%s", res.Error))
		}
		return nil
	}
}
