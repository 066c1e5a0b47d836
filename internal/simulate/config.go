package simulate

import (
	"runtime"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Interactions int           // Number of interactions to generate
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	// DuplicateRate is the share of submissions that replay an earlier
	// event id, in [0, 1).
	DuplicateRate float64
	Seed          uint64
	TopN          int // Length of the lists fetched after submission
}

// DefaultConfig returns the settings used when flags are not given.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:9080",
		Interactions:  500,
		Workers:       runtime.NumCPU(),
		Timeout:       10 * time.Second,
		DuplicateRate: 0.05,
		Seed:          1,
		TopN:          10,
	}
}

// Interaction is one POST /interactions body.
type Interaction struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	ProjectID  string `json:"project_id,omitempty"`
	Rating     int    `json:"rating,omitempty"`
	Query      string `json:"query,omitempty"`
	Category   string `json:"category,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// Stats summarizes a run.
type Stats struct {
	Generated       int            `json:"generated"`
	Submitted       int            `json:"submitted"`
	Recorded        int            `json:"recorded"`
	Duplicate       int            `json:"duplicate"`
	Failed          int            `json:"failed"`
	ByType          map[string]int `json:"by_type"`
	Trending        []string       `json:"trending"`
	Recommendations []string       `json:"recommendations"`
	Duration        time.Duration  `json:"duration"`
}
