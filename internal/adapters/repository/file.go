package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
)

// FileSupplier reads the collection from a JSON file on every call. The
// file holds either an array of projects or {"projects": [...]}.
type FileSupplier struct {
	path string
	opts options
}

// NewFileSupplier creates a supplier reading path.
func NewFileSupplier(path string, opts ...Option) *FileSupplier {
	return &FileSupplier{path: path, opts: apply(opts)}
}

// Projects reads, decodes and validates the file.
func (f *FileSupplier) Projects(ctx context.Context) ([]model.Project, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	projects, err := DecodeProjects(data)
	if err != nil {
		return nil, err
	}
	return sanitize(ctx, "file", projects, f.opts.log), nil
}

// DecodeProjects parses a JSON project list in either accepted shape.
func DecodeProjects(data []byte) ([]model.Project, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []model.Project{}, nil
	}
	var projects []model.Project
	if data[0] == '{' {
		var wrapped struct {
			Projects []model.Project `json:"projects"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		projects = wrapped.Projects
	} else if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}
