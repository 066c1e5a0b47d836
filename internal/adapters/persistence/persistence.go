// Package persistence stores the interaction record in badger, redis or
// memory. Every backend keeps the JSON encoding under one key per session.
package persistence

import (
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

const keyPrefix = "interactions:"

// Key returns the storage key of session.
func Key(session string) string {
	if session == "" {
		session = "local"
	}
	return keyPrefix + session
}

// Backend names, also used as metric labels.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// observed records the outcome and latency of save.
func observed(backend string, save func() error) error {
	start := time.Now()
	err := save()
	metrics.RecordPersistenceSave(backend, err, time.Since(start))
	return err
}

var (
	_ interaction.Persistence = (*BadgerStore)(nil)
	_ interaction.Persistence = (*RedisStore)(nil)
	_ interaction.Persistence = (*MemoryStore)(nil)
)
