// Package preference summarizes an interaction record into the profile
// used by recommendation scoring.
package preference

import (
	"sort"
	"strings"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
)

const (
	maxTopCategories = 5
	maxKeywords      = 10
	searchWindow     = 20

	// neutralRating stands in for the user's average when nothing is rated.
	neutralRating = 3.0
	// varianceScale maps a rating variance of 4 or more to zero consistency.
	varianceScale = 4.0
)

// CategoryWeight is a category with its cumulative selection count.
type CategoryWeight struct {
	Category string `json:"category"`
	Weight   int    `json:"weight"`
}

// RatingPattern describes how the user rates.
type RatingPattern struct {
	AverageRating float64 `json:"averageRating"`
	Consistency   float64 `json:"consistency"`
	Count         int     `json:"count"`
}

// KeywordFrequency is a search term and how often it appeared.
type KeywordFrequency struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// ViewingBehavior summarizes views and dwell time.
type ViewingBehavior struct {
	AverageViews        float64 `json:"averageViews"`
	AverageTimeSpent    float64 `json:"averageTimeSpent"`
	ExplorationTendency float64 `json:"explorationTendency"`
}

// Profile is derived from an interaction record and never persisted.
type Profile struct {
	TopCategories []CategoryWeight   `json:"topCategories"`
	Rating        RatingPattern      `json:"ratingPattern"`
	Keywords      []KeywordFrequency `json:"searchKeywords"`
	Viewing       ViewingBehavior    `json:"viewingBehavior"`

	// Per-project lookups for scoring, copied at analysis time.
	ViewCounts map[string]int       `json:"-"`
	LastViewed map[string]time.Time `json:"-"`
	Rated      map[string]bool      `json:"-"`
}

// HasCategoryHistory reports whether any category was ever selected.
func (p Profile) HasCategoryHistory() bool {
	return len(p.TopCategories) > 0
}

// Analyze derives a Profile from rec. A nil record is treated as empty.
func Analyze(rec *interaction.Record) Profile {
	if rec == nil {
		rec = interaction.NewRecord()
	}
	p := Profile{
		TopCategories: topCategories(rec.CategoryPreferences),
		Rating:        ratingPattern(rec.Ratings),
		Keywords:      keywords(rec.Searches),
		Viewing:       viewing(rec),
		ViewCounts:    make(map[string]int, len(rec.Views)),
		LastViewed:    make(map[string]time.Time, len(rec.Views)),
		Rated:         make(map[string]bool, len(rec.Ratings)),
	}
	for id, ts := range rec.Views {
		if len(ts) == 0 {
			continue
		}
		p.ViewCounts[id] = len(ts)
		p.LastViewed[id] = ts[len(ts)-1]
	}
	for id := range rec.Ratings {
		p.Rated[id] = true
	}
	return p
}

func topCategories(prefs map[string]int) []CategoryWeight {
	out := make([]CategoryWeight, 0, len(prefs))
	for c, n := range prefs {
		out = append(out, CategoryWeight{Category: c, Weight: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > maxTopCategories {
		out = out[:maxTopCategories]
	}
	return out
}

func ratingPattern(ratings map[string]interaction.RatingEntry) RatingPattern {
	if len(ratings) == 0 {
		return RatingPattern{AverageRating: neutralRating}
	}
	n := float64(len(ratings))
	var sum float64
	for _, e := range ratings {
		sum += float64(e.Rating)
	}
	mean := sum / n
	var sq float64
	for _, e := range ratings {
		d := float64(e.Rating) - mean
		sq += d * d
	}
	variance := sq / n
	return RatingPattern{
		AverageRating: mean,
		Consistency:   1 - min(1, variance/varianceScale),
		Count:         len(ratings),
	}
}

func keywords(searches []interaction.SearchEntry) []KeywordFrequency {
	if len(searches) > searchWindow {
		searches = searches[len(searches)-searchWindow:]
	}
	counts := map[string]int{}
	for _, s := range searches {
		for _, w := range strings.Fields(strings.ToLower(s.Query)) {
			counts[w]++
		}
	}
	out := make([]KeywordFrequency, 0, len(counts))
	for w, n := range counts {
		out = append(out, KeywordFrequency{Keyword: w, Frequency: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > maxKeywords {
		out = out[:maxKeywords]
	}
	return out
}

func viewing(rec *interaction.Record) ViewingBehavior {
	var b ViewingBehavior
	viewed, once, total := 0, 0, 0
	for _, ts := range rec.Views {
		if len(ts) == 0 {
			continue
		}
		viewed++
		total += len(ts)
		if len(ts) == 1 {
			once++
		}
	}
	if viewed > 0 {
		b.AverageViews = float64(total) / float64(viewed)
		b.ExplorationTendency = float64(once) / float64(viewed)
	}
	if len(rec.TimeSpent) > 0 {
		var ms int64
		for _, v := range rec.TimeSpent {
			ms += v
		}
		b.AverageTimeSpent = float64(ms) / float64(len(rec.TimeSpent))
	}
	return b
}
