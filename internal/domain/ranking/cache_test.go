package ranking_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/domain/ranking"
	"github.com/smartystreets/goconvey/convey"
)

func items(ids ...string) []model.ScoredProject {
	out := make([]model.ScoredProject, len(ids))
	for i, id := range ids {
		out[i] = model.ScoredProject{Project: model.Project{ID: id}, Score: float64(len(ids) - i)}
	}
	return out
}

func TestCache(t *testing.T) {
	convey.Convey("Given a cache with a controllable clock", t, func() {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		c := ranking.NewCache(ranking.WithClock(func() time.Time { return now }))
		calls := 0
		compute := func() (ranking.Entry, error) {
			calls++
			return ranking.Entry{Items: items("a", "b", "c"), Mode: "balanced"}, nil
		}

		convey.Convey("When the same list is requested twice within the TTL", func() {
			first, hit1, err1 := c.GetOrCompute(model.KindTrending, 0, compute)
			now = now.Add(4 * time.Minute)
			second, hit2, err2 := c.GetOrCompute(model.KindTrending, 0, compute)

			convey.Convey("Then it is computed once and served identically", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(hit1, convey.ShouldBeFalse)
				convey.So(hit2, convey.ShouldBeTrue)
				convey.So(calls, convey.ShouldEqual, 1)
				convey.So(second, convey.ShouldResemble, first)
				convey.So(second.Mode, convey.ShouldEqual, "balanced")
				convey.So(second.ComputedAt, convey.ShouldEqual, first.ComputedAt)
				convey.So(c.Stats().Hits, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the TTL elapses", func() {
			_, _, _ = c.GetOrCompute(model.KindTrending, 0, compute)
			now = now.Add(ranking.DefaultTTL)
			_, hit, _ := c.GetOrCompute(model.KindTrending, 0, compute)

			convey.Convey("Then the list is recomputed", func() {
				convey.So(hit, convey.ShouldBeFalse)
				convey.So(calls, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the cache is invalidated", func() {
			_, _, _ = c.GetOrCompute(model.KindTrending, 0, compute)
			_, _, _ = c.GetOrCompute(model.KindRecommendations, 0, compute)
			c.Invalidate()
			_, _, _ = c.GetOrCompute(model.KindTrending, 0, compute)
			_, _, _ = c.GetOrCompute(model.KindRecommendations, 0, compute)

			convey.Convey("Then both lists are recomputed", func() {
				convey.So(calls, convey.ShouldEqual, 4)
				convey.So(c.Stats().Recomputes, convey.ShouldEqual, 4)
				convey.So(c.Stats().Invalidations, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a limit is given", func() {
			top, _, _ := c.GetOrCompute(model.KindTrending, 2, compute)
			all, _, _ := c.GetOrCompute(model.KindTrending, 10, compute)

			convey.Convey("Then the list is truncated without affecting the cached copy", func() {
				convey.So(len(top.Items), convey.ShouldEqual, 2)
				convey.So(top.Items[0].Project.ID, convey.ShouldEqual, "a")
				convey.So(len(all.Items), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the caller modifies a returned list", func() {
			got, _, _ := c.GetOrCompute(model.KindTrending, 0, compute)
			got.Items[0].Score = -1
			again, _, _ := c.GetOrCompute(model.KindTrending, 0, compute)
			convey.So(again.Items[0].Score, convey.ShouldEqual, 3)
		})

		convey.Convey("When compute fails", func() {
			boom := errors.New("supplier down")
			_, _, err := c.GetOrCompute(model.KindTrending, 0, func() (ranking.Entry, error) { return ranking.Entry{}, boom })
			_, ok := c.ComputedAt(model.KindTrending)

			convey.Convey("Then the error is returned and nothing is cached", func() {
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
				convey.So(ok, convey.ShouldBeFalse)
			})
		})
	})
}

func TestCacheConcurrency(t *testing.T) {
	convey.Convey("Given a cache whose computation blocks until released", t, func() {
		c := ranking.NewCache()
		release := make(chan struct{})
		started := make(chan struct{}, 4)
		var calls atomic.Int32
		slow := func() (ranking.Entry, error) {
			calls.Add(1)
			started <- struct{}{}
			<-release
			return ranking.Entry{Items: items("a", "b"), Mode: "balanced"}, nil
		}

		convey.Convey("When the cache is invalidated during the computation", func() {
			done := make(chan ranking.Entry, 1)
			go func() {
				e, _, _ := c.GetOrCompute(model.KindTrending, 0, slow)
				done <- e
			}()
			<-started

			invalidated := make(chan struct{})
			go func() {
				c.Invalidate()
				close(invalidated)
			}()

			convey.Convey("Then Invalidate does not wait for it", func() {
				select {
				case <-invalidated:
				case <-time.After(time.Second):
					t.Fatal("Invalidate blocked behind a running computation")
				}
				close(release)
				e := <-done
				convey.So(len(e.Items), convey.ShouldEqual, 2)
			})

			convey.Convey("Then its result is returned but not stored", func() {
				<-invalidated
				close(release)
				<-done
				_, ok := c.ComputedAt(model.KindTrending)
				convey.So(ok, convey.ShouldBeFalse)

				_, hit, err := c.GetOrCompute(model.KindTrending, 0, func() (ranking.Entry, error) {
					return ranking.Entry{Items: items("c")}, nil
				})
				convey.So(err, convey.ShouldBeNil)
				convey.So(hit, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When several callers miss the same kind at once", func() {
			var wg sync.WaitGroup
			results := make([]ranking.Entry, 4)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _, _ = c.GetOrCompute(model.KindTrending, 1, slow)
				}(i)
			}
			<-started
			time.Sleep(20 * time.Millisecond)
			close(release)
			wg.Wait()

			convey.Convey("Then the list is computed once and shared", func() {
				convey.So(calls.Load(), convey.ShouldEqual, 1)
				for _, r := range results {
					convey.So(len(r.Items), convey.ShouldEqual, 1)
					convey.So(r.Mode, convey.ShouldEqual, "balanced")
				}
			})
		})
	})
}

func TestSweeper(t *testing.T) {
	convey.Convey("Given a sweeper with a short interval", t, func() {
		c := ranking.NewCache()
		_, _, _ = c.GetOrCompute(model.KindTrending, 0, func() (ranking.Entry, error) { return ranking.Entry{Items: items("a")}, nil })
		s := ranking.NewSweeper(c, 5*time.Millisecond, nil)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			s.Run(ctx)
			close(done)
		}()

		convey.Convey("When it has ticked", func() {
			time.Sleep(30 * time.Millisecond)
			cancel()
			<-done

			convey.Convey("Then the cache was invalidated", func() {
				_, ok := c.ComputedAt(model.KindTrending)
				convey.So(ok, convey.ShouldBeFalse)
				convey.So(c.Stats().Invalidations, convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
