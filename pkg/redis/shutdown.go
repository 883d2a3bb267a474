package redis

import (
	"context"
	"io"
)

// Shutdown returns a function that gracefully closes the cache client.
// Use with graceful shutdown hooks.
//
// Example:
//
//	srv.OnShutdown(redis.Shutdown(client))
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return nil
		}
		return client.Close()
	}
}
