// Package discovery turns the project collection and the user's
// interactions into trending and recommended lists.
package discovery

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/preference"
	"github.com/kaspa-ecosystem/discovery/internal/domain/ranking"
	"github.com/kaspa-ecosystem/discovery/internal/domain/scoring"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

const defaultLimit = 10

// Supplier provides the current project collection.
type Supplier interface {
	Projects(ctx context.Context) ([]model.Project, error)
}

// Renderer presents a ranking. It must not retain or modify r.Items.
type Renderer interface {
	Render(ctx context.Context, r model.Ranking)
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, model.Ranking) {}

// Discovery coordinates the supplier, the interaction store, the scoring
// engine and the ranking cache.
type Discovery struct {
	supplier Supplier
	store    *interaction.Store
	cache    *ranking.Cache
	engine   *scoring.Engine
	renderer Renderer
	profile  atomic.Pointer[scoring.WeightProfile]

	defaultLimit int
	now          func() time.Time
	log          logger.Logger
}

// New wires a Discovery. Every mutation of store invalidates the cache.
func New(supplier Supplier, store *interaction.Store, opts ...Option) *Discovery {
	d := &Discovery{
		supplier:     supplier,
		store:        store,
		renderer:     nopRenderer{},
		defaultLimit: defaultLimit,
		now:          time.Now,
		log:          logger.Default().Named("discovery"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.profile.Load() == nil {
		p := scoring.DefaultProfile()
		d.profile.Store(&p)
	}
	if d.cache == nil {
		d.cache = ranking.NewCache(ranking.WithClock(d.now))
	}
	if d.engine == nil {
		d.engine = scoring.NewEngine(scoring.WithClock(d.now))
	}
	if d.store == nil {
		d.store = interaction.New(nil, interaction.WithClock(d.now))
	}
	d.store.Subscribe(func(context.Context) { d.cache.Invalidate() })
	return d
}

// RefreshTrending renders and returns the top limit projects by trending score.
func (d *Discovery) RefreshTrending(ctx context.Context, limit int) model.Ranking {
	return d.refresh(ctx, model.KindTrending, limit, func(projects []model.Project, wp scoring.WeightProfile) []model.ScoredProject {
		return d.engine.RankTrending(projects, wp.Trending)
	})
}

// RefreshRecommendations renders and returns the top limit projects for the
// current user. The preference profile is derived anew on every recompute.
func (d *Discovery) RefreshRecommendations(ctx context.Context, limit int) model.Ranking {
	return d.refresh(ctx, model.KindRecommendations, limit, func(projects []model.Project, wp scoring.WeightProfile) []model.ScoredProject {
		return d.engine.RankRecommendations(projects, d.Profile(), wp.Recommendation)
	})
}

func (d *Discovery) refresh(
	ctx context.Context,
	kind model.Kind,
	limit int,
	rank func([]model.Project, scoring.WeightProfile) []model.ScoredProject,
) model.Ranking {
	if limit <= 0 {
		limit = d.defaultLimit
	}
	e, cached, err := d.cache.GetOrCompute(kind, limit, func() (ranking.Entry, error) {
		projects, err := d.fetch(ctx)
		if err != nil {
			return ranking.Entry{}, err
		}
		start := time.Now()
		wp := *d.profile.Load()
		scored := ranking.Entry{Items: rank(projects, wp), Mode: wp.Mode.String()}
		metrics.RecordRankingComputation(string(kind), time.Since(start))
		return scored, nil
	})

	r := model.Ranking{Kind: kind, Mode: e.Mode, Items: e.Items, GeneratedAt: e.ComputedAt}
	if err != nil {
		r.Mode = d.profile.Load().Mode.String()
		r.GeneratedAt = d.now()
		r.Items = []model.ScoredProject{}
		r.Unavailable = true
		r.Reason = err.Error()
		metrics.RecordRankingUnavailable(string(kind))
		d.log.Warn(ctx, "ranking unavailable", logger.String("kind", string(kind)), logger.Error(err))
	} else {
		d.log.Debug(ctx, "ranking ready",
			logger.String("kind", string(kind)),
			logger.Int("items", len(r.Items)),
			logger.Bool("cached", cached))
	}
	d.renderer.Render(ctx, r)
	return r
}

func (d *Discovery) fetch(ctx context.Context) ([]model.Project, error) {
	if d.supplier == nil {
		return nil, nil
	}
	projects, err := d.supplier.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSupplierUnavailable, err)
	}
	metrics.UpdateRankedProjects(len(projects))
	return projects, nil
}

// Mode returns the active mode.
func (d *Discovery) Mode() scoring.Mode {
	return d.profile.Load().Mode
}

// Weights returns the active weight profile.
func (d *Discovery) Weights() scoring.WeightProfile {
	return *d.profile.Load()
}

// SetMode activates m, invalidates the cache and recomputes both lists,
// also when m is already active.
func (d *Discovery) SetMode(ctx context.Context, m scoring.Mode, limit int) (trending, recommendations model.Ranking, err error) {
	p, err := scoring.Profile(m)
	if err != nil {
		return model.Ranking{}, model.Ranking{}, err
	}
	prev := d.profile.Swap(&p)
	metrics.RecordModeSwitch(m.String())
	d.log.Info(ctx, "mode switched", logger.String("from", prev.Mode.String()), logger.String("to", m.String()))
	trending, recommendations = d.Refresh(ctx, limit)
	return trending, recommendations, nil
}

// Refresh drops cached lists and recomputes both.
func (d *Discovery) Refresh(ctx context.Context, limit int) (trending, recommendations model.Ranking) {
	d.cache.Invalidate()
	return d.RefreshTrending(ctx, limit), d.RefreshRecommendations(ctx, limit)
}

// Profile derives the preference profile from the current interactions.
func (d *Discovery) Profile() preference.Profile {
	return preference.Analyze(d.store.Snapshot())
}

// CacheStats reports ranking cache activity.
func (d *Discovery) CacheStats() ranking.Stats {
	return d.cache.Stats()
}

// TrackView records a view of projectID.
func (d *Discovery) TrackView(ctx context.Context, projectID string) {
	d.store.RecordView(ctx, projectID)
}

// TrackRating records the user's rating of projectID.
func (d *Discovery) TrackRating(ctx context.Context, projectID string, rating int) {
	d.store.RecordRating(ctx, projectID, rating)
}

// TrackSearch records a search query.
func (d *Discovery) TrackSearch(ctx context.Context, query string) {
	d.store.RecordSearch(ctx, query)
}

// TrackCategory records a category selection.
func (d *Discovery) TrackCategory(ctx context.Context, category string) {
	d.store.RecordCategory(ctx, category)
}

// TrackTimeSpent records time spent on projectID.
func (d *Discovery) TrackTimeSpent(ctx context.Context, projectID string, dur time.Duration) {
	d.store.RecordTimeSpent(ctx, projectID, dur)
}

// ClearHistory forgets every recorded interaction.
func (d *Discovery) ClearHistory(ctx context.Context) {
	d.store.Clear(ctx)
}
