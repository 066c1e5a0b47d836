package interaction

import (
	"time"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSink hands post-mutation snapshots to sink instead of saving inline.
func WithSink(sink Sink) Option {
	return func(s *Store) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithSaveInterval sets the period used by Run.
func WithSaveInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.saveInterval = d
		}
	}
}
