package interaction

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

const defaultSaveInterval = 30 * time.Second

// Interaction types, also used as metric labels.
const (
	TypeView      = "view"
	TypeRating    = "rating"
	TypeSearch    = "search"
	TypeCategory  = "category"
	TypeTimeSpent = "time_spent"
	TypeClear     = "clear"
)

// Persistence loads and saves the record of one user.
type Persistence interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

// Sink accepts snapshots for asynchronous saving. Submit must not block.
type Sink interface {
	Submit(ctx context.Context, rec *Record) error
}

// Store is the process-local interaction record of the current user.
type Store struct {
	mu  sync.RWMutex
	rec *Record

	persist      Persistence
	sink         Sink
	hooks        []func(ctx context.Context)
	now          func() time.Time
	log          logger.Logger
	saveInterval time.Duration
}

// New returns an empty store. persist may be nil for a memory-only store.
func New(persist Persistence, opts ...Option) *Store {
	s := &Store{
		rec:          NewRecord(),
		persist:      persist,
		now:          time.Now,
		log:          logger.Default().Named("interaction"),
		saveInterval: defaultSaveInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a store restored from persist. Missing or malformed data
// yields an empty store; it is logged, never returned.
func Open(ctx context.Context, persist Persistence, opts ...Option) *Store {
	s := New(persist, opts...)
	if persist == nil {
		return s
	}
	rec, err := persist.Load(ctx)
	switch {
	case err == nil && rec != nil:
		rec.normalize()
		s.rec = rec
		s.log.Info(ctx, "interaction record restored",
			logger.Int("views", len(rec.Views)),
			logger.Int("ratings", len(rec.Ratings)),
			logger.Int("searches", len(rec.Searches)))
	case errors.Is(err, ErrNotFound), err == nil:
		s.log.Debug(ctx, "no stored interaction record")
	default:
		s.log.Warn(ctx, "discarding stored interaction record", logger.Error(err))
	}
	return s
}

// Subscribe registers fn to run synchronously after every mutation,
// before the mutating call returns.
func (s *Store) Subscribe(fn func(ctx context.Context)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// RecordView appends a view of projectID, keeping the latest MaxViewsPerProject.
func (s *Store) RecordView(ctx context.Context, projectID string) {
	s.mutate(ctx, TypeView, func(r *Record, now time.Time) {
		views := append(r.Views[projectID], now)
		if len(views) > MaxViewsPerProject {
			views = views[len(views)-MaxViewsPerProject:]
		}
		r.Views[projectID] = views
	})
}

// RecordRating stores rating as the user's rating of projectID. The value
// is stored as given.
func (s *Store) RecordRating(ctx context.Context, projectID string, rating int) {
	s.mutate(ctx, TypeRating, func(r *Record, now time.Time) {
		r.Ratings[projectID] = RatingEntry{Rating: rating, Timestamp: now}
	})
}

// RecordSearch appends query to the search history.
func (s *Store) RecordSearch(ctx context.Context, query string) {
	s.mutate(ctx, TypeSearch, func(r *Record, now time.Time) {
		r.Searches = append(r.Searches, SearchEntry{Query: query, Timestamp: now})
	})
}

// RecordCategory counts one selection of category.
func (s *Store) RecordCategory(ctx context.Context, category string) {
	s.mutate(ctx, TypeCategory, func(r *Record, _ time.Time) {
		r.CategoryPreferences[category]++
	})
}

// RecordTimeSpent adds d to the time spent on projectID. Negative
// durations are ignored.
func (s *Store) RecordTimeSpent(ctx context.Context, projectID string, d time.Duration) {
	if d < 0 {
		return
	}
	s.mutate(ctx, TypeTimeSpent, func(r *Record, _ time.Time) {
		r.TimeSpent[projectID] += d.Milliseconds()
	})
}

// Clear forgets everything recorded.
func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, TypeClear, func(r *Record, _ time.Time) {
		*r = *NewRecord()
	})
}

// Snapshot returns a deep copy of the record as it would be persisted.
func (s *Store) Snapshot() *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Clone()
}

func (s *Store) mutate(ctx context.Context, kind string, fn func(r *Record, now time.Time)) {
	s.mu.Lock()
	fn(s.rec, s.now())
	s.rec.Searches = lastSearches(s.rec.Searches, MaxSearches)
	snap := s.rec.Clone()
	queued := s.queue(ctx, snap)
	hooks := s.hooks
	s.mu.Unlock()

	metrics.RecordInteraction(kind)
	for _, hook := range hooks {
		hook(ctx)
	}
	if !queued {
		s.save(ctx, snap)
	}
}

// queue hands snap to the sink. Callers hold s.mu so snapshots reach the
// sink in mutation order. It reports false when there is no sink.
func (s *Store) queue(ctx context.Context, snap *Record) bool {
	if s.persist == nil || s.sink == nil {
		return false
	}
	if err := s.sink.Submit(ctx, snap); err != nil {
		s.log.Warn(ctx, "snapshot not queued", logger.Error(err))
	}
	return true
}

func (s *Store) save(ctx context.Context, snap *Record) {
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(ctx, snap); err != nil {
		s.log.Warn(ctx, "save interaction record", logger.Error(err))
	}
}

// flush writes the current record through the sink when one is set, so
// the sink's writer stays the only one saving while it runs.
func (s *Store) flush(ctx context.Context) {
	s.mu.Lock()
	snap := s.rec.Clone()
	queued := s.queue(ctx, snap)
	s.mu.Unlock()
	if !queued {
		s.save(ctx, snap)
	}
}

// Save persists the current record synchronously.
func (s *Store) Save(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	return s.persist.Save(ctx, s.Snapshot())
}

// Run saves the record every save interval until ctx is done.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.saveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}
