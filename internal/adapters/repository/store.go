// Package repository supplies the project collection from files, Postgres
// or memory, validated before it reaches the ranking core.
package repository

import (
	"context"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/internal/validation"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

// Source provides the current project collection.
type Source interface {
	Projects(ctx context.Context) ([]model.Project, error)
}

// sanitize drops projects that fail validation or repeat an earlier id.
func sanitize(ctx context.Context, source string, projects []model.Project, log logger.Logger) []model.Project {
	out := make([]model.Project, 0, len(projects))
	seen := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		if err := validation.ValidateStruct(p); err != nil {
			metrics.RecordInvalidProject(source)
			log.Warn(ctx, "dropping invalid project", logger.String("id", p.ID), logger.Error(err))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			metrics.RecordInvalidProject(source)
			log.Warn(ctx, "dropping duplicate project", logger.String("id", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
