// Package dedupe remembers recently seen interaction event ids so a
// retried submission is applied at most once.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 10_000

// Deduper records seen event ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it
	// if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a failed submission can be retried.
	Unrecord(ctx context.Context, id string)

	Size() int
}

// Ring is a bounded Deduper. Once full, the oldest id is forgotten first.
type Ring struct {
	mu      sync.Mutex
	seen    map[string]int
	ids     []string
	next    int
	maxSize int
}

// New creates a ring with configuration options.
func New(opts ...Option) *Ring {
	r := &Ring{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(r)
	}
	r.seen = make(map[string]int, r.maxSize)
	r.ids = make([]string, r.maxSize)
	return r
}

// SeenAndRecord implements Deduper. Empty ids are never deduplicated.
func (r *Ring) SeenAndRecord(_ context.Context, id string) bool {
	if id == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[id]; ok {
		return true
	}
	if old := r.ids[r.next]; old != "" {
		delete(r.seen, old)
	}
	r.ids[r.next] = id
	r.seen[id] = r.next
	r.next = (r.next + 1) % r.maxSize
	return false
}

// Unrecord implements Deduper.
func (r *Ring) Unrecord(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slot, ok := r.seen[id]; ok {
		delete(r.seen, id)
		r.ids[slot] = ""
	}
}

// Size returns how many ids are remembered.
func (r *Ring) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
