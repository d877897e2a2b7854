package redispool

import (
	"errors"
	"fmt"
)

// ErrClosed is the error returned by Acquire after the pool is closed.
var ErrClosed = errors.New("redispool: pool closed")

// ConfigError is the error type returned by New when the configuration values
// won't work.
type ConfigError struct {
	Field  string
	Reason string
}

var _ error = (*ConfigError)(nil)

func (e *ConfigError) Error() string {
	return fmt.Sprintf("redispool: invalid config: %s %s", e.Field, e.Reason)
}
