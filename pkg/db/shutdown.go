package db

import (
	"context"
)

// Shutdown returns a function that gracefully closes the managed database
// connection. Use with graceful shutdown hooks.
//
// Example:
//
//	srv.OnShutdown(db.Shutdown(manager))
func Shutdown(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return nil
		}
		return m.Disconnect(ctx)
	}
}
