package ranking

import (
	"context"
	"time"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// Sweeper invalidates a cache on a fixed period.
type Sweeper struct {
	cache    *Cache
	interval time.Duration
	log      logger.Logger
}

// NewSweeper creates a sweeper for cache. A non-positive interval uses DefaultTTL.
func NewSweeper(cache *Cache, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultTTL
	}
	if log == nil {
		log = logger.Default().Named("sweeper")
	}
	return &Sweeper{cache: cache, interval: interval, log: log}
}

// Run blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.log.Debug(ctx, "cache sweeper started", logger.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cache.Invalidate()
		}
	}
}
