package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/preference"
)

// Recommendation sub-score names, as they appear in a breakdown.
const (
	SignalCategorySimilarity = "category_similarity"
	SignalRatingAlignment    = "rating_alignment"
	SignalUserBehavior       = "user_behavior"
	SignalSocialSignals      = "social_signals"
	SignalFreshness          = "freshness"
)

const (
	neutralCategory    = 0.5
	unmatchedCategory  = 0.1
	neutralAlignment   = 0.3
	repeatBehavior     = 0.2
	keywordSaturation  = 5.0
	freshnessHours     = 168.0
	freshnessViewLimit = 10.0
)

// CategorySimilarity scores how well p's category matches the user's top
// categories. Users without category history get 0.5 for every project.
func CategorySimilarity(p model.Project, prof preference.Profile) float64 {
	if !prof.HasCategoryHistory() {
		return neutralCategory
	}
	sum, matched := 0, 0
	for _, c := range prof.TopCategories {
		sum += c.Weight
		if c.Category == p.Category {
			matched = c.Weight
		}
	}
	if sum <= 0 {
		return neutralCategory
	}
	if matched == 0 {
		return unmatchedCategory
	}
	return clamp01(float64(matched) / float64(sum))
}

// RatingAlignment compares p's average rating with the user's. Unrated
// projects and users without ratings get 0.3.
func RatingAlignment(p model.Project, prof preference.Profile) float64 {
	if p.RatingCount <= 0 || prof.Rating.Count == 0 {
		return neutralAlignment
	}
	closeness := math.Max(0, 1-math.Abs(p.AverageRating-prof.Rating.AverageRating)/maxRating)
	return clamp01(closeness * (0.5 + 0.5*prof.Rating.Consistency))
}

// UserBehavior blends keyword relevance with the user's exploration
// tendency. Projects the user both viewed and rated score 0.2.
func UserBehavior(p model.Project, prof preference.Profile) float64 {
	if prof.ViewCounts[p.ID] > 0 && prof.Rated[p.ID] {
		return repeatBehavior
	}
	text := strings.ToLower(p.Name + " " + p.Description + " " + p.Category)
	matched := 0
	for _, k := range prof.Keywords {
		if strings.Contains(text, k.Keyword) {
			matched += k.Frequency
		}
	}
	relevance := math.Min(1, float64(matched)/keywordSaturation)
	return clamp01(0.7*relevance + 0.3*prof.Viewing.ExplorationTendency)
}

// SocialSignals blends absolute popularity figures.
func SocialSignals(p model.Project) float64 {
	return clamp01(0.3*math.Min(1, float64(p.ViewCount())/1000) +
		0.3*math.Min(1, float64(p.RatingCount)/50) +
		0.2*math.Min(1, float64(p.CommentCount)/20) +
		0.2*math.Min(1, float64(p.GitHubStars)/100))
}

// Freshness favors projects the user has not seen, or has not seen lately
// or often.
func Freshness(p model.Project, prof preference.Profile, now time.Time) float64 {
	views := prof.ViewCounts[p.ID]
	if views == 0 {
		return 1
	}
	hours := math.Max(0, now.Sub(prof.LastViewed[p.ID]).Hours())
	recencyPenalty := math.Min(1, hours/freshnessHours)
	frequencyPenalty := math.Max(0, 1-float64(views)/freshnessViewLimit)
	return clamp01(math.Min(recencyPenalty, frequencyPenalty))
}

// RecommendationScore returns the weighted personal score of p and its breakdown.
func RecommendationScore(p model.Project, prof preference.Profile, w RecommendationWeights, now time.Time) (float64, map[string]float64) {
	b := map[string]float64{
		SignalCategorySimilarity: CategorySimilarity(p, prof),
		SignalRatingAlignment:    RatingAlignment(p, prof),
		SignalUserBehavior:       UserBehavior(p, prof),
		SignalSocialSignals:      SocialSignals(p),
		SignalFreshness:          Freshness(p, prof, now),
	}
	score := w.CategorySimilarity*b[SignalCategorySimilarity] +
		w.RatingAlignment*b[SignalRatingAlignment] +
		w.UserBehavior*b[SignalUserBehavior] +
		w.SocialSignals*b[SignalSocialSignals] +
		w.Freshness*b[SignalFreshness]
	return score, b
}
