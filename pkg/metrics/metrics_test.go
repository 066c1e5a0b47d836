package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.cacheInvalidations.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_cache_invalidations_total"], ShouldBeTrue)
			})
		})

		Convey("When constant labels are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithConstLabels(prometheus.Labels{"session": "alice"}),
				WithConstLabels(nil),
				WithPrometheusRegistry(registry),
			)
			manager.snapshotDropped.Inc()

			Convey("Then every sample carries them", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, f := range families {
					for _, metric := range f.GetMetric() {
						labels := map[string]string{}
						for _, lp := range metric.GetLabel() {
							labels[lp.GetName()] = lp.GetValue()
						}
						So(labels["session"], ShouldEqual, "alice")
					}
				}
			})
		})

		Convey("When empty options are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(registry))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "kaspa")
				So(manager.subsystem, ShouldEqual, "discovery")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording cache activity", func() {
			before := testutil.ToFloat64(globalManager.cacheHits.WithLabelValues("trending"))
			RecordCacheHit("trending")
			RecordCacheMiss("trending")
			RecordCacheInvalidation()

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.cacheHits.WithLabelValues("trending")), ShouldEqual, before+1)
			})
		})

		Convey("When recording persistence outcomes", func() {
			okBefore := testutil.ToFloat64(globalManager.persistenceSaves.WithLabelValues("memory", "ok"))
			errBefore := testutil.ToFloat64(globalManager.persistenceSaves.WithLabelValues("memory", "error"))
			RecordPersistenceSave("memory", nil, time.Millisecond)
			RecordPersistenceSave("memory", errors.New("disk"), time.Millisecond)

			So(testutil.ToFloat64(globalManager.persistenceSaves.WithLabelValues("memory", "ok")), ShouldEqual, okBefore+1)
			So(testutil.ToFloat64(globalManager.persistenceSaves.WithLabelValues("memory", "error")), ShouldEqual, errBefore+1)
		})

		Convey("When updating gauges", func() {
			UpdateBreakerOpen(true)
			So(testutil.ToFloat64(globalManager.breakerStateOpen), ShouldEqual, 1)
			UpdateBreakerOpen(false)
			So(testutil.ToFloat64(globalManager.breakerStateOpen), ShouldEqual, 0)

			UpdateSnapshotQueueSize(3)
			So(testutil.ToFloat64(globalManager.snapshotQueueSize), ShouldEqual, 3)
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordRankingComputation("trending", 2*time.Millisecond)
				RecordRankingUnavailable("recommendations")
				RecordModeSwitch("exploration")
				UpdateRankedProjects(12)
				RecordInteraction("view")
				RecordInteractionDuplicate()
				RecordSnapshotDropped()
				RecordSupplierError("file")
				RecordInvalidProject("postgres")
				RecordGitHubRequest("ok")
				RecordHTTPRequest("/trending", "GET", 200)
				RecordHTTPRequestDuration("/trending", "GET", 200, 1.5)
				RecordErrorByEndpoint("/interactions", "POST", "validation")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
			}, ShouldNotPanic)
		})

		Convey("When gathering from the custom registry", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
