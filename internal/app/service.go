// Package service assembles the discovery core with its adapters and runs
// the background loops that keep it current.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/adapters/github"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/http/api"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/http/site"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/http/swagger"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/mq/queue"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/mq/worker"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/persistence"
	"github.com/kaspa-ecosystem/discovery/internal/adapters/repository"
	"github.com/kaspa-ecosystem/discovery/internal/config"
	"github.com/kaspa-ecosystem/discovery/internal/domain/dedupe"
	"github.com/kaspa-ecosystem/discovery/internal/domain/discovery"
	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/internal/domain/ranking"
	"github.com/kaspa-ecosystem/discovery/internal/domain/scoring"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

const writerShutdownTimeout = 5 * time.Second

// ErrNotStarted is returned by operations that need a running service.
var ErrNotStarted = errors.New("service not started")

// Service owns every component of one discovery session.
type Service struct {
	mu sync.RWMutex

	cfg              *config.Config
	supplierOverride discovery.Supplier
	persistOverride  interaction.Persistence
	now              func() time.Time

	breaker *repository.BreakerSupplier
	persist interaction.Persistence
	store   *interaction.Store
	queue   *queue.SnapshotQueue
	writer  *worker.Writer
	cache   *ranking.Cache
	disc    *discovery.Discovery
	deduper *dedupe.Ring
	render  *statsRenderer
	closers []func() error

	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{
		cfg:    cfg,
		now:    time.Now,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("service")
	return s
}

// Start builds the components and starts the background loops.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting discovery service...")

	supplier, err := s.buildSupplier()
	if err != nil {
		s.closeAll(ctx)
		return fmt.Errorf("build supplier: %w", err)
	}
	persist, err := s.buildPersistence(ctx)
	if err != nil {
		s.closeAll(ctx)
		return fmt.Errorf("build persistence: %w", err)
	}
	s.persist = persist

	cfg := s.cfg
	s.queue = queue.New(queue.WithCapacity(cfg.PersistQueueSize))
	s.writer = worker.NewWriter(s.queue, persist, worker.WithLogger(s.logger))
	s.store = interaction.Open(ctx, persist,
		interaction.WithClock(s.now),
		interaction.WithLogger(s.logger),
		interaction.WithSink(s.queue),
		interaction.WithSaveInterval(time.Duration(cfg.PersistIntervalSeconds)*time.Second),
	)

	mode, err := scoring.ParseMode(cfg.DefaultMode)
	if err != nil {
		s.closeAll(ctx)
		return err
	}
	s.cache = ranking.NewCache(
		ranking.WithTTL(time.Duration(cfg.CacheTTLSeconds)*time.Second),
		ranking.WithClock(s.now),
	)
	s.render = newStatsRenderer(s.logger)
	s.disc = discovery.New(supplier, s.store,
		discovery.WithCache(s.cache),
		discovery.WithEngine(scoring.NewEngine(
			scoring.WithClock(s.now),
			scoring.WithParallelism(cfg.ScoringParallelism),
		)),
		discovery.WithMode(mode),
		discovery.WithDefaultLimit(cfg.DefaultLimit),
		discovery.WithRenderer(s.render),
		discovery.WithClock(s.now),
		discovery.WithLogger(s.logger),
	)
	s.deduper = dedupe.New(dedupe.WithMaxSize(cfg.DedupeSize))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	sweeper := ranking.NewSweeper(s.cache, time.Duration(cfg.SweepIntervalSeconds)*time.Second, s.logger)
	s.goRun(func() { s.writer.Run(runCtx) })
	s.goRun(func() { s.store.Run(runCtx) })
	s.goRun(func() { sweeper.Run(runCtx) })

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "discovery service started",
		logger.String("mode", mode.String()),
		logger.String("projects_source", cfg.ProjectsSource),
		logger.String("persistence", cfg.PersistenceBackend),
		logger.String("session", cfg.SessionID),
		logger.Bool("github_enrich", cfg.GitHubEnrich),
	)
	return nil
}

func (s *Service) goRun(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Stop flushes pending snapshots, saves the record and releases resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping discovery service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, writerShutdownTimeout)
	if err := s.writer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "snapshot writer shutdown", logger.Error(err))
	}
	cancel()
	if err := s.store.Save(ctx); err != nil {
		s.logger.Error(ctx, "final save failed", logger.Error(err))
	}

	s.cancel()
	s.wg.Wait()
	_ = s.queue.Close()
	s.closeAll(ctx)

	s.started = false
	s.logger.Info(ctx, "discovery service stopped")
}

func (s *Service) closeAll(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn(ctx, "close resource", logger.Error(err))
		}
	}
	s.closers = nil
}

func (s *Service) buildSupplier() (discovery.Supplier, error) {
	cfg := s.cfg
	opts := []repository.Option{repository.WithLogger(s.logger)}

	var src repository.Source
	switch {
	case s.supplierOverride != nil:
		src = s.supplierOverride
	case cfg.ProjectsSource == config.SourcePostgres:
		pg, err := repository.OpenPostgres(cfg.PostgresDSN, opts...)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pg.Close)
		src = pg
	case cfg.ProjectsSource == config.SourceMemory:
		src = repository.NewMemorySupplier(nil, opts...)
	default:
		src = repository.NewFileSupplier(cfg.ProjectsFile, opts...)
	}

	s.breaker = repository.NewBreakerSupplier(src, append(opts,
		repository.WithName(cfg.ProjectsSource),
		repository.WithBreaker(cfg.BreakerMaxFailures, time.Duration(cfg.BreakerTimeoutSeconds)*time.Second),
	)...)
	if !cfg.GitHubEnrich {
		return s.breaker, nil
	}

	client, err := github.NewClient(cfg.GitHubToken, cfg.GitHubBaseURL)
	if err != nil {
		return nil, err
	}
	return github.NewEnricher(s.breaker, client,
		github.WithRate(cfg.GitHubRatePerSecond),
		github.WithCacheTTL(time.Duration(cfg.GitHubCacheTTLSeconds)*time.Second),
		github.WithClock(s.now),
		github.WithLogger(s.logger),
	), nil
}

func (s *Service) buildPersistence(ctx context.Context) (interaction.Persistence, error) {
	cfg := s.cfg
	if s.persistOverride != nil {
		return s.persistOverride, nil
	}
	switch cfg.PersistenceBackend {
	case config.BackendBadger:
		db, err := persistence.OpenBadger(cfg.BadgerPath, cfg.SessionID)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		return db, nil
	case config.BackendRedis:
		rs, err := persistence.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionID)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, rs.Close)
		return rs, nil
	default:
		return persistence.NewMemoryStore(), nil
	}
}

// Discovery returns the discovery core, nil before Start.
func (s *Service) Discovery() *discovery.Discovery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disc
}

// Handler returns the HTTP routes of the running service.
func (s *Service) Handler() (http.Handler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}

	mux := http.NewServeMux()
	site.Register(mux)
	swagger.Register(mux)
	api.NewServer(s.disc, s.deduper, s,
		api.WithDefaultLimit(s.cfg.DefaultLimit),
		api.WithMaxLimit(s.cfg.MaxResultLimit),
	).Register(mux)
	return mux, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"session":        s.cfg.SessionID,
		"projectsSource": s.cfg.ProjectsSource,
		"persistence":    s.cfg.PersistenceBackend,
		"githubEnrich":   s.cfg.GitHubEnrich,
	}
	if !s.started {
		return stats
	}

	rec := s.store.Snapshot()
	stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
	stats["mode"] = s.disc.Mode().String()
	stats["cache"] = s.disc.CacheStats()
	stats["dedupeSize"] = s.deduper.Size()
	stats["snapshotQueueLength"] = s.queue.Len()
	stats["supplierCircuit"] = s.breaker.State()
	stats["lastRankings"] = s.render.snapshot()
	stats["interactions"] = map[string]int{
		"viewedProjects": len(rec.Views),
		"ratings":        len(rec.Ratings),
		"searches":       len(rec.Searches),
		"categories":     len(rec.CategoryPreferences),
	}
	return stats
}
