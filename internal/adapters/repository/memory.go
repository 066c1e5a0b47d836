package repository

import (
	"context"
	"sync"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
)

// MemorySupplier serves a replaceable in-memory collection.
type MemorySupplier struct {
	mu       sync.RWMutex
	projects []model.Project
	opts     options
}

// NewMemorySupplier creates a supplier holding projects.
func NewMemorySupplier(projects []model.Project, opts ...Option) *MemorySupplier {
	m := &MemorySupplier{opts: apply(opts)}
	m.Replace(context.Background(), projects)
	return m
}

// Replace swaps the whole collection. Invalid projects are dropped.
func (m *MemorySupplier) Replace(ctx context.Context, projects []model.Project) {
	clean := sanitize(ctx, "memory", projects, m.opts.log)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = clean
}

// Projects returns a copy of the collection.
func (m *MemorySupplier) Projects(context.Context) ([]model.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Project(nil), m.projects...), nil
}
