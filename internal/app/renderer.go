package service

import (
	"context"
	"sync"
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// rankingSummary is what /stats shows about the last rendered list.
type rankingSummary struct {
	Mode        string    `json:"mode"`
	GeneratedAt time.Time `json:"generated_at"`
	Items       int       `json:"items"`
	Top         []string  `json:"top,omitempty"`
	Unavailable bool      `json:"unavailable,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

const summaryTop = 3

// statsRenderer logs every ranking and remembers a summary per kind.
type statsRenderer struct {
	mu   sync.RWMutex
	last map[model.Kind]rankingSummary
	log  logger.Logger
}

func newStatsRenderer(log logger.Logger) *statsRenderer {
	return &statsRenderer{last: make(map[model.Kind]rankingSummary), log: log}
}

func (r *statsRenderer) Render(ctx context.Context, ranking model.Ranking) {
	sum := rankingSummary{
		Mode:        ranking.Mode,
		GeneratedAt: ranking.GeneratedAt,
		Items:       len(ranking.Items),
		Unavailable: ranking.Unavailable,
		Reason:      ranking.Reason,
	}
	for i := 0; i < len(ranking.Items) && i < summaryTop; i++ {
		sum.Top = append(sum.Top, ranking.Items[i].Project.ID)
	}

	r.mu.Lock()
	r.last[ranking.Kind] = sum
	r.mu.Unlock()

	r.log.Debug(ctx, "ranking rendered",
		logger.String("kind", string(ranking.Kind)),
		logger.String("mode", ranking.Mode),
		logger.Int("items", sum.Items),
		logger.Bool("unavailable", sum.Unavailable))
}

func (r *statsRenderer) snapshot() map[string]rankingSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]rankingSummary, len(r.last))
	for k, v := range r.last {
		out[string(k)] = v
	}
	return out
}
