package scoring

import (
	"math"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
)

// Trending sub-score names, as they appear in a breakdown.
const (
	SignalGitHubActivity      = "github_activity"
	SignalCommunityEngagement = "community_engagement"
	SignalRatingMomentum      = "rating_momentum"
	SignalRecency             = "recency"
	SignalViewVelocity        = "view_velocity"
)

const (
	pushWindowDays    = 30
	recencyWindowDays = 90
	// velocityCap is the views per day that saturates view_velocity.
	velocityCap = 10
	// momentumRatings is the rating count that saturates the volume term.
	momentumRatings = 10
	highRating      = 4.0
	maxRating       = 5.0
)

// daysSince counts whole days from t to now. Future times count as 0.
func daysSince(now, t time.Time) int {
	d := now.Sub(t)
	if d <= 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// logScale maps n onto [0,1] by log10(n+1)/divisor.
func logScale(n int, divisor float64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(1, math.Log10(float64(n)+1)/divisor)
}

// GitHubActivity blends push recency, stars and commits.
func GitHubActivity(p model.Project, now time.Time) float64 {
	push := 0.0
	if p.GitHubPushedAt != nil {
		push = math.Max(0, 1-float64(daysSince(now, *p.GitHubPushedAt))/pushWindowDays)
	}
	stars := logScale(p.GitHubStars, 4)
	commits := logScale(p.CommitCount(), 3)
	return clamp01(0.5*push + 0.3*stars + 0.2*commits)
}

// CommunityEngagement blends rating volume, comment volume and average rating.
func CommunityEngagement(p model.Project) float64 {
	ratings := logScale(p.RatingCount, 2)
	comments := logScale(p.CommentCount, 2)
	quality := clamp01(p.AverageRating / maxRating)
	return clamp01(0.4*ratings + 0.3*comments + 0.3*quality)
}

// RatingMomentum rewards projects with many, high ratings. Unrated projects score 0.
func RatingMomentum(p model.Project) float64 {
	if p.RatingCount <= 0 {
		return 0
	}
	volume := math.Min(1, float64(p.RatingCount)/momentumRatings)
	quality := 1.0
	if p.AverageRating < highRating {
		quality = p.AverageRating / highRating
	}
	return clamp01(0.6*volume + 0.4*quality)
}

// Recency decays linearly to 0 over 90 days from creation.
func Recency(p model.Project, now time.Time) float64 {
	return clamp01(1 - float64(daysSince(now, p.CreatedAt))/recencyWindowDays)
}

// ViewVelocity is views per day since creation, saturating at 10. Projects
// created today score 0.
func ViewVelocity(p model.Project, now time.Time) float64 {
	days := daysSince(now, p.CreatedAt)
	if days == 0 {
		return 0
	}
	return clamp01(float64(p.ViewCount()) / float64(days) / velocityCap)
}

// TrendingScore returns the weighted trending score of p and its breakdown.
func TrendingScore(p model.Project, w TrendingWeights, now time.Time) (float64, map[string]float64) {
	b := map[string]float64{
		SignalGitHubActivity:      GitHubActivity(p, now),
		SignalCommunityEngagement: CommunityEngagement(p),
		SignalRatingMomentum:      RatingMomentum(p),
		SignalRecency:             Recency(p, now),
		SignalViewVelocity:        ViewVelocity(p, now),
	}
	score := w.GitHubActivity*b[SignalGitHubActivity] +
		w.CommunityEngagement*b[SignalCommunityEngagement] +
		w.RatingMomentum*b[SignalRatingMomentum] +
		w.Recency*b[SignalRecency] +
		w.ViewVelocity*b[SignalViewVelocity]
	return score, b
}
