package db

import "errors"

var (
	ErrMissingConnString  = errors.New("db: connection string is empty")
	ErrInvalidConnString  = errors.New("db: invalid connection string")
	ErrMissingConfig      = errors.New("db: missing required configuration")
	ErrInvalidConfigValue = errors.New("db: invalid configuration value")
	ErrConnectionFailed   = errors.New("db: connection failed")
	ErrConnectTimeout     = errors.New("db: connection timed out")
	ErrRetriesExhausted   = errors.New("db: connection retries exhausted")
	ErrDisconnectFailed   = errors.New("db: failed to close connection cleanly")
	ErrHealthcheckFailed  = errors.New("db: healthcheck failed")
	ErrNotConnected       = errors.New("db: not connected")
)
