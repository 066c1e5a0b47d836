package preference_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/internal/domain/preference"
	"github.com/smartystreets/goconvey/convey"
)

func TestAnalyzeColdStart(t *testing.T) {
	convey.Convey("Given an empty interaction record", t, func() {
		p := preference.Analyze(interaction.NewRecord())

		convey.Convey("Then the profile carries the neutral prior", func() {
			convey.So(p.Rating.AverageRating, convey.ShouldEqual, 3)
			convey.So(p.Rating.Consistency, convey.ShouldEqual, 0)
			convey.So(p.Rating.Count, convey.ShouldEqual, 0)
			convey.So(p.TopCategories, convey.ShouldBeEmpty)
			convey.So(p.Keywords, convey.ShouldBeEmpty)
			convey.So(p.Viewing.ExplorationTendency, convey.ShouldEqual, 0)
			convey.So(p.Viewing.AverageViews, convey.ShouldEqual, 0)
			convey.So(p.HasCategoryHistory(), convey.ShouldBeFalse)
		})

		convey.Convey("Then a nil record behaves the same", func() {
			convey.So(preference.Analyze(nil).Rating.AverageRating, convey.ShouldEqual, 3)
		})
	})
}

func TestAnalyzeCategories(t *testing.T) {
	convey.Convey("Given seven selected categories", t, func() {
		rec := interaction.NewRecord()
		for i, c := range []string{"defi", "wallets", "mining", "nft", "tools", "games", "infra"} {
			rec.CategoryPreferences[c] = 10 - i
		}
		rec.CategoryPreferences["games"] = 9

		p := preference.Analyze(rec)

		convey.Convey("Then the top five are kept by count, ties by name", func() {
			convey.So(len(p.TopCategories), convey.ShouldEqual, 5)
			convey.So(p.TopCategories[0], convey.ShouldResemble, preference.CategoryWeight{Category: "defi", Weight: 10})
			convey.So(p.TopCategories[1], convey.ShouldResemble, preference.CategoryWeight{Category: "games", Weight: 9})
			convey.So(p.TopCategories[2], convey.ShouldResemble, preference.CategoryWeight{Category: "wallets", Weight: 9})
			convey.So(p.TopCategories[4].Category, convey.ShouldEqual, "nft")
		})
	})
}

func TestAnalyzeRatings(t *testing.T) {
	convey.Convey("Given rating histories", t, func() {
		rec := interaction.NewRecord()

		convey.Convey("When every rating is the same", func() {
			rec.Ratings["a"] = interaction.RatingEntry{Rating: 4}
			rec.Ratings["b"] = interaction.RatingEntry{Rating: 4}
			p := preference.Analyze(rec)
			convey.So(p.Rating.AverageRating, convey.ShouldEqual, 4)
			convey.So(p.Rating.Consistency, convey.ShouldEqual, 1)
			convey.So(p.Rating.Count, convey.ShouldEqual, 2)
		})

		convey.Convey("When ratings are 1 and 5", func() {
			rec.Ratings["a"] = interaction.RatingEntry{Rating: 1}
			rec.Ratings["b"] = interaction.RatingEntry{Rating: 5}
			p := preference.Analyze(rec)

			convey.Convey("Then a variance of 4 gives zero consistency", func() {
				convey.So(p.Rating.AverageRating, convey.ShouldEqual, 3)
				convey.So(p.Rating.Consistency, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When ratings are 2 and 4", func() {
			rec.Ratings["a"] = interaction.RatingEntry{Rating: 2}
			rec.Ratings["b"] = interaction.RatingEntry{Rating: 4}
			p := preference.Analyze(rec)
			convey.So(p.Rating.Consistency, convey.ShouldAlmostEqual, 0.75, 1e-9)
			convey.So(p.Rated["a"], convey.ShouldBeTrue)
		})
	})
}

func TestAnalyzeKeywords(t *testing.T) {
	convey.Convey("Given a search history", t, func() {
		rec := interaction.NewRecord()

		convey.Convey("When queries repeat words in mixed case", func() {
			for _, q := range []string{"Kaspa wallet", "kaspa  MINER", "wallet"} {
				rec.Searches = append(rec.Searches, interaction.SearchEntry{Query: q})
			}
			p := preference.Analyze(rec)

			convey.Convey("Then keywords are case folded and ranked by frequency", func() {
				convey.So(p.Keywords, convey.ShouldResemble, []preference.KeywordFrequency{
					{Keyword: "kaspa", Frequency: 2},
					{Keyword: "wallet", Frequency: 2},
					{Keyword: "miner", Frequency: 1},
				})
			})
		})

		convey.Convey("When there are more than twenty searches", func() {
			for i := 0; i < 25; i++ {
				q := fmt.Sprintf("term%d", i%12)
				if i < 5 {
					q = "ancient"
				}
				rec.Searches = append(rec.Searches, interaction.SearchEntry{Query: q})
			}
			p := preference.Analyze(rec)

			convey.Convey("Then only the last twenty count and at most ten keywords come back", func() {
				convey.So(len(p.Keywords), convey.ShouldEqual, 10)
				for _, k := range p.Keywords {
					convey.So(k.Keyword, convey.ShouldNotEqual, "ancient")
				}
			})
		})
	})
}

func TestAnalyzeViewing(t *testing.T) {
	convey.Convey("Given views and time spent", t, func() {
		rec := interaction.NewRecord()
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		rec.Views["a"] = []time.Time{base}
		rec.Views["b"] = []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}
		rec.Views["c"] = []time.Time{base.Add(time.Minute)}
		rec.Views["d"] = nil
		rec.TimeSpent["a"] = 1000
		rec.TimeSpent["b"] = 3000

		p := preference.Analyze(rec)

		convey.Convey("Then averages and exploration are computed over viewed projects", func() {
			convey.So(p.Viewing.AverageViews, convey.ShouldAlmostEqual, 5.0/3.0, 1e-9)
			convey.So(p.Viewing.ExplorationTendency, convey.ShouldAlmostEqual, 2.0/3.0, 1e-9)
			convey.So(p.Viewing.AverageTimeSpent, convey.ShouldEqual, 2000)
		})

		convey.Convey("Then per-project lookups reflect the latest view", func() {
			convey.So(p.ViewCounts["b"], convey.ShouldEqual, 3)
			convey.So(p.LastViewed["b"], convey.ShouldEqual, base.Add(2*time.Hour))
			_, ok := p.ViewCounts["d"]
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
