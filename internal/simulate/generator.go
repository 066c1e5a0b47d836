// Package simulate drives a running discovery service with synthetic
// interactions and reports how its lists respond.
package simulate

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Interaction type shares out of 100.
const (
	shareView      = 45
	shareTimeSpent = 20
	shareRating    = 15
	shareSearch    = 10
	// the remainder are category picks
)

const (
	maxDwellMS = 120_000
	minDwellMS = 500
)

// Catalog is what the generator knows about the directory.
type Catalog struct {
	ProjectIDs []string
	Categories []string
	Names      []string
}

// Generator produces interactions biased towards a few favorite
// categories and projects, the way a real visitor behaves.
type Generator struct {
	rng       *rand.Rand
	catalog   Catalog
	favorites []string
	dupRate   float64
}

// NewGenerator creates a deterministic generator for seed.
func NewGenerator(catalog Catalog, seed uint64, dupRate float64) *Generator {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := &Generator{rng: rng, catalog: catalog, dupRate: dupRate}
	if n := len(catalog.Categories); n > 0 {
		for i := 0; i < 2 && i < n; i++ {
			g.favorites = append(g.favorites, catalog.Categories[rng.IntN(n)])
		}
	}
	return g
}

// Generate returns n interactions. Roughly dupRate of them replay an
// earlier event id.
func (g *Generator) Generate(n int) []Interaction {
	out := make([]Interaction, 0, n)
	for len(out) < n {
		if len(out) > 0 && g.rng.Float64() < g.dupRate {
			out = append(out, out[g.rng.IntN(len(out))])
			continue
		}
		in, ok := g.next()
		if !ok {
			break
		}
		out = append(out, in)
	}
	return out
}

func (g *Generator) next() (Interaction, bool) {
	in := Interaction{EventID: uuid.NewString()}
	projects := g.catalog.ProjectIDs

	roll := g.rng.IntN(100)
	switch {
	case len(projects) == 0 && len(g.catalog.Categories) == 0:
		return Interaction{}, false
	case len(projects) == 0 || roll >= shareView+shareTimeSpent+shareRating+shareSearch:
		if len(g.catalog.Categories) == 0 {
			return g.search(in), true
		}
		in.Type = "category"
		in.Category = g.category()
	case roll < shareView:
		in.Type = "view"
		in.ProjectID = g.project()
	case roll < shareView+shareTimeSpent:
		in.Type = "time_spent"
		in.ProjectID = g.project()
		in.DurationMS = int64(minDwellMS + g.rng.IntN(maxDwellMS-minDwellMS))
	case roll < shareView+shareTimeSpent+shareRating:
		in.Type = "rating"
		in.ProjectID = g.project()
		in.Rating = 3 + g.rng.IntN(3)
	default:
		return g.search(in), true
	}
	return in, true
}

func (g *Generator) search(in Interaction) Interaction {
	in.Type = "search"
	in.Query = "kaspa"
	if names := g.catalog.Names; len(names) > 0 {
		words := strings.Fields(strings.ToLower(names[g.rng.IntN(len(names))]))
		if len(words) > 0 {
			in.Query = words[len(words)-1]
		}
	}
	return in
}

// category prefers a favorite two times out of three.
func (g *Generator) category() string {
	if len(g.favorites) > 0 && g.rng.IntN(3) < 2 {
		return g.favorites[g.rng.IntN(len(g.favorites))]
	}
	cats := g.catalog.Categories
	return cats[g.rng.IntN(len(cats))]
}

// project skews towards the front of the list.
func (g *Generator) project() string {
	ids := g.catalog.ProjectIDs
	i := g.rng.IntN(len(ids))
	if j := g.rng.IntN(len(ids)); j < i {
		i = j
	}
	return ids[i]
}
