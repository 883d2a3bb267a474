package db

import (
	"os"
	"sync"
)

var (
	defaultOnce    sync.Once
	defaultManager *Manager
	defaultErr     error
)

// DefaultManager returns the process-wide Manager, resolving its
// configuration from environment variables on first use. The resolved
// Manager, or the resolution error, is latched: every subsequent call
// returns the same result without touching the environment again.
func DefaultManager() (*Manager, error) {
	defaultOnce.Do(func() {
		cfg, err := ResolveConfig(os.LookupEnv)
		if err != nil {
			defaultErr = err
			return
		}
		defaultManager, defaultErr = NewManager(cfg)
	})
	return defaultManager, defaultErr
}
