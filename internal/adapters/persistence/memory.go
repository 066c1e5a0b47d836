package persistence

import (
	"context"
	"sync"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
)

// MemoryStore keeps the encoded record in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored record or interaction.ErrNotFound.
func (s *MemoryStore) Load(_ context.Context) (*interaction.Record, error) {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()
	if data == nil {
		return nil, interaction.ErrNotFound
	}
	return interaction.Unmarshal(data)
}

// Save replaces the stored record.
func (s *MemoryStore) Save(_ context.Context, rec *interaction.Record) error {
	data, err := interaction.Marshal(rec)
	if err != nil {
		return err
	}
	return observed(BackendMemory, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.data = data
		s.saves++
		return nil
	})
}

// SetRaw stores bytes as-is.
func (s *MemoryStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Saves reports how many saves succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
