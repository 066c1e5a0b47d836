package simulate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// catalogLimit bounds how many trending items are read to learn the
// directory.
const catalogLimit = 100

// Run checks the service, generates cfg.Interactions interactions against
// its catalog, submits them with cfg.Workers workers, and reads back the
// resulting lists.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	if cfg.Interactions < 0 || cfg.Workers < 1 || cfg.DuplicateRate < 0 || cfg.DuplicateRate >= 1 {
		return nil, fmt.Errorf("%w: interactions=%d workers=%d duplicates=%v",
			ErrInvalidConfig, cfg.Interactions, cfg.Workers, cfg.DuplicateRate)
	}
	if cfg.TopN < 1 {
		cfg.TopN = 10
	}
	log := logger.Default().Named("simulate")
	start := time.Now()
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("interactions", cfg.Interactions),
		logger.Int("workers", cfg.Workers),
		logger.Float64("duplicateRate", cfg.DuplicateRate))

	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	trending, err := client.Trending(ctx, catalogLimit)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	catalog := catalogOf(trending)
	if len(catalog.ProjectIDs) == 0 {
		return nil, ErrEmptyCatalog
	}

	gen := NewGenerator(catalog, cfg.Seed, cfg.DuplicateRate)
	batch := gen.Generate(cfg.Interactions)
	stats := &Stats{Generated: len(batch), ByType: make(map[string]int)}
	for _, in := range batch {
		stats.ByType[in.Type]++
	}

	submit(ctx, client, cfg.Workers, batch, stats)
	log.Info(ctx, "submission completed",
		logger.Int("recorded", stats.Recorded),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed))

	if trending, err = client.Trending(ctx, cfg.TopN); err != nil {
		return stats, fmt.Errorf("trending retrieval failed: %w", err)
	}
	recs, err := client.Recommendations(ctx, cfg.TopN)
	if err != nil {
		return stats, fmt.Errorf("recommendations retrieval failed: %w", err)
	}
	stats.Trending = idsOf(trending)
	stats.Recommendations = idsOf(recs)
	stats.Duration = time.Since(start)
	return stats, nil
}

// submit fans the batch out to a fixed pool of workers.
func submit(ctx context.Context, client *Client, workers int, batch []Interaction, stats *Stats) {
	var recorded, duplicate, failed, submitted atomic.Int64
	ch := make(chan Interaction, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range ch {
				submitted.Add(1)
				switch client.Submit(ctx, in) {
				case OutcomeRecorded:
					recorded.Add(1)
				case OutcomeDuplicate:
					duplicate.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, in := range batch {
			select {
			case <-ctx.Done():
				return
			case ch <- in:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Recorded = int(recorded.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Failed = int(failed.Load())
}

func catalogOf(r model.Ranking) Catalog {
	var c Catalog
	seen := make(map[string]bool)
	for _, it := range r.Items {
		c.ProjectIDs = append(c.ProjectIDs, it.Project.ID)
		c.Names = append(c.Names, it.Project.Name)
		if cat := it.Project.Category; cat != "" && !seen[cat] {
			seen[cat] = true
			c.Categories = append(c.Categories, cat)
		}
	}
	return c
}

func idsOf(r model.Ranking) []string {
	ids := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		ids = append(ids, it.Project.ID)
	}
	return ids
}
