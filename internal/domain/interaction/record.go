// Package interaction records what the local user did: views, ratings,
// searches, category picks and time spent on project pages.
package interaction

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// MaxViewsPerProject is how many view timestamps are kept per project.
	MaxViewsPerProject = 10
	// MaxSearches is how many searches a persisted record keeps.
	MaxSearches = 50
)

// RatingEntry is the user's latest rating of a project.
type RatingEntry struct {
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchEntry is one submitted search query.
type SearchEntry struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is everything known about one user's behavior.
type Record struct {
	// Views holds view timestamps per project, oldest first.
	Views               map[string][]time.Time `json:"views"`
	Ratings             map[string]RatingEntry `json:"ratings"`
	Searches            []SearchEntry          `json:"searches"`
	CategoryPreferences map[string]int         `json:"categoryPreferences"`
	// TimeSpent is cumulative milliseconds per project.
	TimeSpent map[string]int64 `json:"timeSpent"`
}

// NewRecord returns an empty record with all collections allocated.
func NewRecord() *Record {
	return &Record{
		Views:               make(map[string][]time.Time),
		Ratings:             make(map[string]RatingEntry),
		Searches:            []SearchEntry{},
		CategoryPreferences: make(map[string]int),
		TimeSpent:           make(map[string]int64),
	}
}

// Clone returns a deep copy with searches trimmed to MaxSearches.
func (r *Record) Clone() *Record {
	out := NewRecord()
	for id, ts := range r.Views {
		out.Views[id] = append([]time.Time(nil), ts...)
	}
	for id, e := range r.Ratings {
		out.Ratings[id] = e
	}
	out.Searches = append(out.Searches, lastSearches(r.Searches, MaxSearches)...)
	for c, n := range r.CategoryPreferences {
		out.CategoryPreferences[c] = n
	}
	for id, ms := range r.TimeSpent {
		out.TimeSpent[id] = ms
	}
	return out
}

// Empty reports whether nothing has been recorded.
func (r *Record) Empty() bool {
	return len(r.Views) == 0 && len(r.Ratings) == 0 && len(r.Searches) == 0 &&
		len(r.CategoryPreferences) == 0 && len(r.TimeSpent) == 0
}

// normalize fills nil collections and enforces the size bounds of a
// record decoded from storage.
func (r *Record) normalize() {
	if r.Views == nil {
		r.Views = make(map[string][]time.Time)
	}
	if r.Ratings == nil {
		r.Ratings = make(map[string]RatingEntry)
	}
	if r.Searches == nil {
		r.Searches = []SearchEntry{}
	}
	if r.CategoryPreferences == nil {
		r.CategoryPreferences = make(map[string]int)
	}
	if r.TimeSpent == nil {
		r.TimeSpent = make(map[string]int64)
	}
	for id, ts := range r.Views {
		if len(ts) > MaxViewsPerProject {
			r.Views[id] = ts[len(ts)-MaxViewsPerProject:]
		}
	}
	r.Searches = lastSearches(r.Searches, MaxSearches)
}

func lastSearches(s []SearchEntry, n int) []SearchEntry {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

// Marshal encodes the record in its storage form.
func Marshal(r *Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

// Unmarshal decodes a stored record. Missing collections come back empty.
func Unmarshal(data []byte) (*Record, error) {
	r := &Record{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	r.normalize()
	return r, nil
}
