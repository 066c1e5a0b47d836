// Package scoring ranks projects by a global trending score and by a
// personal recommendation score. Both are weighted sums of sub-scores in
// [0,1]; the weights come from the active WeightProfile.
package scoring

import (
	"sort"
	"sync"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/preference"
)

const (
	defaultParallelism       = 1
	defaultParallelThreshold = 512
)

// Engine scores and sorts project collections.
type Engine struct {
	now               func() time.Time
	parallelism       int
	parallelThreshold int
}

// NewEngine creates an Engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:               time.Now,
		parallelism:       defaultParallelism,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's notion of the current time.
func (e *Engine) Now() time.Time { return e.now() }

// RankTrending scores every project with w and returns them best first.
// Equal scores keep their input order.
func (e *Engine) RankTrending(projects []model.Project, w TrendingWeights) []model.ScoredProject {
	now := e.now()
	return e.rank(projects, func(p model.Project) (float64, map[string]float64) {
		return TrendingScore(p, w, now)
	})
}

// RankRecommendations scores every project for prof with w and returns them
// best first. Equal scores keep their input order.
func (e *Engine) RankRecommendations(projects []model.Project, prof preference.Profile, w RecommendationWeights) []model.ScoredProject {
	now := e.now()
	return e.rank(projects, func(p model.Project) (float64, map[string]float64) {
		return RecommendationScore(p, prof, w, now)
	})
}

func (e *Engine) rank(projects []model.Project, score func(model.Project) (float64, map[string]float64)) []model.ScoredProject {
	out := make([]model.ScoredProject, len(projects))
	fill := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s, b := score(projects[i])
			out[i] = model.ScoredProject{Project: projects[i], Score: s, Breakdown: b}
		}
	}

	workers := e.parallelism
	if len(projects) < e.parallelThreshold || workers <= 1 {
		fill(0, len(projects))
	} else {
		chunk := (len(projects) + workers - 1) / workers
		var wg sync.WaitGroup
		for lo := 0; lo < len(projects); lo += chunk {
			hi := min(lo+chunk, len(projects))
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				fill(lo, hi)
			}(lo, hi)
		}
		wg.Wait()
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
