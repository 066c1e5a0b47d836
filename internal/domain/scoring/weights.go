package scoring

import (
	"fmt"
	"strings"
)

// Mode names a weight profile.
type Mode string

const (
	ModeBalanced      Mode = "balanced"
	ModeTrendingFocus Mode = "trending-focus"
	ModePersonalFocus Mode = "personal-focus"
	ModeExploration   Mode = "exploration"
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeBalanced, ModeTrendingFocus, ModePersonalFocus, ModeExploration}
}

func (m Mode) String() string { return string(m) }

// ParseMode resolves a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := profiles[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// TrendingWeights weights the trending sub-scores.
type TrendingWeights struct {
	GitHubActivity      float64 `json:"github_activity"`
	CommunityEngagement float64 `json:"community_engagement"`
	RatingMomentum      float64 `json:"rating_momentum"`
	Recency             float64 `json:"recency"`
	ViewVelocity        float64 `json:"view_velocity"`
}

// Sum returns the total weight.
func (w TrendingWeights) Sum() float64 {
	return w.GitHubActivity + w.CommunityEngagement + w.RatingMomentum + w.Recency + w.ViewVelocity
}

// RecommendationWeights weights the recommendation sub-scores.
type RecommendationWeights struct {
	CategorySimilarity float64 `json:"category_similarity"`
	RatingAlignment    float64 `json:"rating_alignment"`
	UserBehavior       float64 `json:"user_behavior"`
	SocialSignals      float64 `json:"social_signals"`
	Freshness          float64 `json:"freshness"`
}

// Sum returns the total weight.
func (w RecommendationWeights) Sum() float64 {
	return w.CategorySimilarity + w.RatingAlignment + w.UserBehavior + w.SocialSignals + w.Freshness
}

// WeightProfile is the immutable pair of weight vectors selected by a mode.
type WeightProfile struct {
	Mode           Mode                  `json:"mode"`
	Trending       TrendingWeights       `json:"trending"`
	Recommendation RecommendationWeights `json:"recommendation"`
}

var defaultTrending = TrendingWeights{
	GitHubActivity:      0.30,
	CommunityEngagement: 0.25,
	RatingMomentum:      0.20,
	Recency:             0.15,
	ViewVelocity:        0.10,
}

var defaultRecommendation = RecommendationWeights{
	CategorySimilarity: 0.30,
	RatingAlignment:    0.25,
	UserBehavior:       0.20,
	SocialSignals:      0.15,
	Freshness:          0.10,
}

var profiles = map[Mode]WeightProfile{
	ModeBalanced: {
		Mode:           ModeBalanced,
		Trending:       defaultTrending,
		Recommendation: defaultRecommendation,
	},
	ModeTrendingFocus: {
		Mode: ModeTrendingFocus,
		Trending: TrendingWeights{
			GitHubActivity: 0.35, CommunityEngagement: 0.25, RatingMomentum: 0.15, Recency: 0.10, ViewVelocity: 0.15,
		},
		Recommendation: RecommendationWeights{
			CategorySimilarity: 0.20, RatingAlignment: 0.15, UserBehavior: 0.15, SocialSignals: 0.40, Freshness: 0.10,
		},
	},
	ModePersonalFocus: {
		Mode:     ModePersonalFocus,
		Trending: defaultTrending,
		Recommendation: RecommendationWeights{
			CategorySimilarity: 0.40, RatingAlignment: 0.30, UserBehavior: 0.20, SocialSignals: 0.05, Freshness: 0.05,
		},
	},
	ModeExploration: {
		Mode: ModeExploration,
		Trending: TrendingWeights{
			GitHubActivity: 0.20, CommunityEngagement: 0.20, RatingMomentum: 0.15, Recency: 0.35, ViewVelocity: 0.10,
		},
		Recommendation: RecommendationWeights{
			CategorySimilarity: 0.10, RatingAlignment: 0.15, UserBehavior: 0.25, SocialSignals: 0.15, Freshness: 0.35,
		},
	},
}

// Profile returns the weight profile of m. Unknown modes get ErrUnknownMode.
func Profile(m Mode) (WeightProfile, error) {
	p, ok := profiles[m]
	if !ok {
		return WeightProfile{}, fmt.Errorf("%w: %q", ErrUnknownMode, m)
	}
	return p, nil
}

// DefaultProfile is the balanced profile.
func DefaultProfile() WeightProfile {
	return profiles[ModeBalanced]
}
