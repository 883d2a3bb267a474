package db

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment keys read by ResolveConfig.
const (
	// EnvDatabaseURL is the PostgreSQL connection URL (required).
	EnvDatabaseURL = "DATABASE_URL"
	// EnvConnectTimeoutMS overrides the connection timeout, in milliseconds.
	EnvConnectTimeoutMS = "DATABASE_CONNECT_TIMEOUT_MS"
	// EnvQueryTimeoutMS overrides the health query timeout, in milliseconds.
	EnvQueryTimeoutMS = "DATABASE_QUERY_TIMEOUT_MS"
	// EnvMaxConns overrides the connection pool capacity.
	EnvMaxConns = "DATABASE_MAX_CONNS"
	// EnvAppEnv is the deployment environment indicator. Verbose query
	// logging is enabled only when it equals "development".
	EnvAppEnv = "APP_ENV"
)

// Defaults applied when the corresponding environment override is absent.
const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultQueryTimeout   = 10 * time.Second
	DefaultMaxConns       = int32(20)
)

// LookupFunc reports the value of an environment key and whether it is set.
// os.LookupEnv satisfies it; tests pass map-backed lookups.
type LookupFunc func(key string) (string, bool)

// Config holds the resolved database connection parameters.
// Construct it with ResolveConfig; a Manager copies it at construction and
// never mutates it afterwards.
type Config struct {
	Host           string `validate:"required"`
	Port           int    `validate:"min=1,max=65535"`
	Database       string `validate:"required"`
	User           string
	Password       string
	TLSEnabled     bool
	ConnectTimeout time.Duration `validate:"gt=0"`
	QueryTimeout   time.Duration `validate:"gt=0"`
	MaxConns       int32         `validate:"min=1,max=100"`
	VerboseLogging bool
}

var validate = validator.New()

// Validate checks the configuration against the documented bounds.
// ResolveConfig output always passes; call this on hand-built configs before
// constructing a Manager.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Join(ErrInvalidConfigValue, err)
	}
	return nil
}

// ResolveConfig builds a Config from the environment view: the connection
// URL is parsed into host/port/database/credentials/TLS, then the optional
// timeout and pool-size overrides are applied on top of the defaults.
//
// It performs no I/O and is pure given a fixed lookup, so it is safe to call
// repeatedly. Configuration errors are never retried: a missing connection
// URL fails with ErrMissingConfig, an out-of-bounds or non-numeric override
// fails with ErrInvalidConfigValue naming the key and the value received.
func ResolveConfig(lookup LookupFunc) (Config, error) {
	raw, ok := lookup(EnvDatabaseURL)
	if !ok {
		return Config{}, errors.Join(ErrMissingConfig, fmt.Errorf("%s is not set", EnvDatabaseURL))
	}

	cs, err := ParseConnString(raw)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Host:           cs.Host,
		Port:           cs.Port,
		Database:       cs.Database,
		User:           cs.User,
		Password:       cs.Password,
		TLSEnabled:     cs.TLSEnabled,
		ConnectTimeout: DefaultConnectTimeout,
		QueryTimeout:   DefaultQueryTimeout,
		MaxConns:       DefaultMaxConns,
	}

	if d, err := timeoutSetting(lookup, EnvConnectTimeoutMS); err != nil {
		return Config{}, err
	} else if d > 0 {
		cfg.ConnectTimeout = d
	}

	if d, err := timeoutSetting(lookup, EnvQueryTimeoutMS); err != nil {
		return Config{}, err
	} else if d > 0 {
		cfg.QueryTimeout = d
	}

	if raw, ok := lookup(EnvMaxConns); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return Config{}, errors.Join(ErrInvalidConfigValue,
				fmt.Errorf("%s=%q: must be an integer between 1 and 100", EnvMaxConns, raw))
		}
		cfg.MaxConns = int32(n)
	}

	// Query logging is derived, never configured directly: only development
	// deployments are verbose.
	if env, ok := lookup(EnvAppEnv); ok && env == "development" {
		cfg.VerboseLogging = true
	}

	return cfg, nil
}

// timeoutSetting reads a millisecond-valued override. Returns zero when the
// key is absent (caller keeps its default).
func timeoutSetting(lookup LookupFunc, key string) (time.Duration, error) {
	raw, ok := lookup(key)
	if !ok {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.Join(ErrInvalidConfigValue,
			fmt.Errorf("%s=%q: must be a positive integer (milliseconds)", key, raw))
	}
	return time.Duration(n) * time.Millisecond, nil
}
