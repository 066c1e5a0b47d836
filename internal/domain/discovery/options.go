package discovery

import (
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/ranking"
	"github.com/kaspa-ecosystem/discovery/internal/domain/scoring"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// Option configures a Discovery.
type Option func(*Discovery)

// WithRenderer sets the collaborator that receives every ranking.
func WithRenderer(r Renderer) Option {
	return func(d *Discovery) {
		if r != nil {
			d.renderer = r
		}
	}
}

// WithCache replaces the default ranking cache.
func WithCache(c *ranking.Cache) Option {
	return func(d *Discovery) {
		if c != nil {
			d.cache = c
		}
	}
}

// WithEngine replaces the default scoring engine.
func WithEngine(e *scoring.Engine) Option {
	return func(d *Discovery) {
		if e != nil {
			d.engine = e
		}
	}
}

// WithMode sets the initial weight profile.
func WithMode(m scoring.Mode) Option {
	return func(d *Discovery) {
		if p, err := scoring.Profile(m); err == nil {
			d.profile.Store(&p)
		}
	}
}

// WithDefaultLimit sets the list length used when a caller passes limit <= 0.
func WithDefaultLimit(n int) Option {
	return func(d *Discovery) {
		if n > 0 {
			d.defaultLimit = n
		}
	}
}

// WithClock sets the clock used for ranking timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Discovery) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Discovery) {
		if l != nil {
			d.log = l
		}
	}
}
