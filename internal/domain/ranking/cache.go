// Package ranking memoizes computed rankings for a bounded time.
package ranking

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

// DefaultTTL is how long a computed list stays valid.
const DefaultTTL = 5 * time.Minute

// Entry is one computed list. Mode names the weight profile it was
// scored with.
type Entry struct {
	Items      []model.ScoredProject
	Mode       string
	ComputedAt time.Time
}

// Stats counts cache activity since creation.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Recomputes    int64 `json:"recomputes"`
	Invalidations int64 `json:"invalidations"`
}

// Cache holds the last computed list per kind. A list is valid while
// now - ComputedAt < ttl and no invalidation happened since.
//
// Computations run outside the lock, so Invalidate never waits for one.
// Concurrent misses of one kind share a single computation. A result whose
// computation started before the latest Invalidate is handed to the callers
// that waited for it but is not stored.
type Cache struct {
	mu      sync.Mutex
	entries map[model.Kind]Entry
	gen     uint64
	flight  singleflight.Group
	ttl     time.Duration
	now     func() time.Time
	stats   Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the validity window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[model.Kind]Entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached list of kind with its items cut to limit,
// computing and storing it first when absent or expired. limit <= 0 keeps
// every item. The returned items are a copy. compute fills Items and Mode;
// its errors are returned and nothing is cached.
func (c *Cache) GetOrCompute(kind model.Kind, limit int, compute func() (Entry, error)) (Entry, bool, error) {
	c.mu.Lock()
	if e, ok := c.valid(kind); ok {
		c.stats.Hits++
		c.mu.Unlock()
		metrics.RecordCacheHit(string(kind))
		return cut(e, limit), true, nil
	}
	c.stats.Misses++
	gen := c.gen
	c.mu.Unlock()
	metrics.RecordCacheMiss(string(kind))

	// Keyed by generation: after Invalidate a new computation starts
	// instead of joining one that may have read stale data.
	v, err, _ := c.flight.Do(string(kind)+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		c.mu.Lock()
		if e, ok := c.valid(kind); ok {
			c.mu.Unlock()
			return e, nil
		}
		c.mu.Unlock()

		e, err := compute()
		if err != nil {
			return nil, err
		}
		e.ComputedAt = c.now()

		c.mu.Lock()
		c.stats.Recomputes++
		if c.gen == gen {
			c.entries[kind] = e
		}
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return cut(v.(Entry), limit), false, nil
}

// valid returns the entry of kind if it has not expired. c.mu must be held.
func (c *Cache) valid(kind model.Kind) (Entry, bool) {
	e, ok := c.entries[kind]
	if !ok || c.now().Sub(e.ComputedAt) >= c.ttl {
		return Entry{}, false
	}
	return e, true
}

// Invalidate drops every cached list. Computations in flight finish but
// their results are not stored.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	clear(c.entries)
	c.gen++
	c.stats.Invalidations++
	c.mu.Unlock()
	metrics.RecordCacheInvalidation()
}

// ComputedAt reports when the list of kind was computed, if cached.
func (c *Cache) ComputedAt(kind model.Kind) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[kind]
	return e.ComputedAt, ok
}

// Stats returns a copy of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func cut(e Entry, limit int) Entry {
	n := len(e.Items)
	if limit > 0 && limit < n {
		n = limit
	}
	items := make([]model.ScoredProject, n)
	copy(items, e.Items[:n])
	e.Items = items
	return e
}
