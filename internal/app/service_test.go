package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/kaspa-ecosystem/discovery/internal/adapters/persistence"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/repository"
	service "github.com/kaspa-ecosystem/discovery/internal/app"
	"github.com/kaspa-ecosystem/discovery/internal/config"
	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func catalog() []model.Project {
	pushed := now.Add(-24 * time.Hour)
	return []model.Project{
		{ID: "wallet", Name: "Kaspa Wallet", Category: "wallets", GitHubStars: 40, CreatedAt: now.Add(-300 * 24 * time.Hour)},
		{ID: "dex", Name: "KasDEX", Category: "defi", GitHubStars: 900, GitHubPushedAt: &pushed, RatingCount: 12, AverageRating: 4.5, CreatedAt: now.Add(-5 * 24 * time.Hour)},
		{ID: "pool", Name: "Kaspa Pool", Category: "mining", CreatedAt: now.Add(-60 * 24 * time.Hour)},
	}
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.ProjectsSource = config.SourceMemory
	cfg.PersistenceBackend = config.BackendMemory
	return cfg
}

func newService(store *persistence.MemoryStore) *service.Service {
	return service.New(testConfig(),
		service.WithLogger(logger.Nop()),
		service.WithClock(clock),
		service.WithSupplier(repository.NewMemorySupplier(catalog())),
		service.WithPersistence(store),
	)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over memory adapters", t, func() {
		ctx := context.Background()
		store := persistence.NewMemoryStore()
		svc := newService(store)

		Convey("Stats before Start report it as stopped", func() {
			So(svc.GetStats()["started"], ShouldEqual, false)
			_, err := svc.Handler()
			So(err, ShouldEqual, service.ErrNotStarted)
		})

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			Reset(svc.Stop)

			Convey("Stats describe the running session", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["mode"], ShouldEqual, "balanced")
				So(stats["supplierCircuit"], ShouldEqual, "closed")
			})

			Convey("Trending is served over HTTP", func() {
				h, err := svc.Handler()
				So(err, ShouldBeNil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trending?limit=1", nil))
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"id":"dex"`)

				Convey("and the last ranking shows up in stats", func() {
					last, ok := svc.GetStats()["lastRankings"]
					So(ok, ShouldBeTrue)
					So(last, ShouldNotBeEmpty)
				})
			})

			Convey("Docs and landing page are mounted", func() {
				h, _ := svc.Handler()
				for _, path := range []string{"/", "/openapi.yaml", "/api-docs", "/healthz"} {
					w := httptest.NewRecorder()
					h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
					So(w.Code, ShouldEqual, http.StatusOK)
				}
			})

			Convey("Interactions survive a restart", func() {
				h, _ := svc.Handler()
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/interactions",
					strings.NewReader(`{"type":"category","category":"defi"}`)))
				So(w.Code, ShouldEqual, http.StatusAccepted)

				svc.Stop()
				rec, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(rec.CategoryPreferences["defi"], ShouldEqual, 1)

				again := newService(store)
				So(again.Start(ctx), ShouldBeNil)
				defer again.Stop()
				So(again.Discovery().Profile().HasCategoryHistory(), ShouldBeTrue)
			})
		})
	})
}

func TestService_StartErrors(t *testing.T) {
	Convey("Given a config with an unknown default mode", t, func() {
		cfg := testConfig()
		cfg.DefaultMode = "chaos"
		svc := service.New(cfg, service.WithLogger(logger.Nop()))

		Convey("Start fails and the service stays stopped", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			svc.Stop()
		})
	})

	Convey("Given a nil config", t, func() {
		svc := service.New(nil, service.WithLogger(logger.Nop()))

		Convey("Defaults are used", func() {
			So(svc.GetStats()["projectsSource"], ShouldEqual, config.SourceFile)
		})
	})
}
