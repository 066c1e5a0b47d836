// Package model contains domain models passed between layers.
package model

import (
	"time"

	json "github.com/goccy/go-json"
)

// Project is one directory entry as seen by the ranking core.
// Fields mirror the projects table; the core never mutates a Project.
type Project struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// GitHubRepo is "owner/name"; only enrichment reads it.
	GitHubRepo     string     `json:"github_repo,omitempty"`
	GitHubStars    int        `json:"github_stars" validate:"gte=0"`
	GitHubPushedAt *time.Time `json:"github_pushed_at,omitempty"`
	GitHubCommits  *int       `json:"github_commits,omitempty" validate:"omitempty,gte=0"`
	RatingCount    int        `json:"rating_count" validate:"gte=0"`
	AverageRating  float64    `json:"average_rating" validate:"gte=0,lte=5"`
	CommentCount   int        `json:"comment_count" validate:"gte=0"`
	Views          *int       `json:"views,omitempty" validate:"omitempty,gte=0"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UnmarshalJSON accepts "title" as an alias for "name".
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var aux struct {
		plain
		Title string `json:"title"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Project(aux.plain)
	if p.Name == "" {
		p.Name = aux.Title
	}
	return nil
}

// ViewCount returns the view counter, 0 when unknown.
func (p Project) ViewCount() int {
	if p.Views == nil {
		return 0
	}
	return *p.Views
}

// CommitCount returns the commit counter, 0 when unknown.
func (p Project) CommitCount() int {
	if p.GitHubCommits == nil {
		return 0
	}
	return *p.GitHubCommits
}

// ScoredProject pairs a project with its score and the named sub-scores
// that produced it.
type ScoredProject struct {
	Project   Project            `json:"project"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// Kind names a ranked list.
type Kind string

const (
	KindTrending        Kind = "trending"
	KindRecommendations Kind = "recommendations"
)

// Ranking is what a renderer receives.
type Ranking struct {
	Kind        Kind            `json:"kind"`
	Mode        string          `json:"mode"`
	Items       []ScoredProject `json:"items"`
	GeneratedAt time.Time       `json:"generated_at"`
	// Unavailable marks the recoverable "no data" state after a supplier failure.
	Unavailable bool   `json:"unavailable,omitempty"`
	Reason      string `json:"reason,omitempty"`
}
