package github

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// Option applies a configuration option to the Enricher.
type Option func(*Enricher)

// WithRate limits GitHub API calls to perSecond with a burst of one.
func WithRate(perSecond float64) Option {
	return func(e *Enricher) {
		if perSecond > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithCacheTTL sets how long fetched repository stats are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Enricher) {
		if ttl > 0 {
			e.ttl = ttl
		}
	}
}

// WithCommitWindow sets how far back commits are counted.
func WithCommitWindow(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.window = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Enricher) {
		if l != nil {
			e.log = l
		}
	}
}
