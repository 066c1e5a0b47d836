package repository

import (
	"time"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// Option applies a configuration option to a supplier.
type Option func(*options)

type options struct {
	log             logger.Logger
	breakerFailures uint32
	breakerTimeout  time.Duration
	name            string
}

func defaultOptions() options {
	return options{
		log:             logger.Default().Named("repository"),
		breakerFailures: 5,
		breakerTimeout:  30 * time.Second,
		name:            "projects",
	}
}

func apply(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithBreaker sets how many consecutive failures open the circuit and how
// long it stays open.
func WithBreaker(failures int, timeout time.Duration) Option {
	return func(o *options) {
		if failures > 0 {
			o.breakerFailures = uint32(failures)
		}
		if timeout > 0 {
			o.breakerTimeout = timeout
		}
	}
}

// WithName names the supplier in logs and breaker metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}
