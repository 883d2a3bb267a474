package health

import "errors"

// ErrCheckTimeout replaces the raw context error when a check exceeds the
// shared evaluation deadline, so probe responses name the timeout instead of
// leaking context internals.
var ErrCheckTimeout = errors.New("health: check timeout")
