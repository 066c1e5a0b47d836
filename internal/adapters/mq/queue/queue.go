// Package queue hands interaction snapshots from request handlers to the
// persistence writer without blocking the caller.
package queue

import (
	"context"
	"sync"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

const defaultCapacity = 64

// Queue provides non-blocking submit and channel-based dequeue semantics.
type Queue interface {
	interaction.Sink

	// Dequeue returns the channel snapshots are delivered on. It is closed
	// once the queue is closed and drained.
	Dequeue() <-chan *interaction.Record

	// Len returns the number of pending snapshots.
	Len() int

	// Close stops accepting snapshots.
	Close() error
}

// SnapshotQueue implements Queue using a buffered channel.
type SnapshotQueue struct {
	snapshots chan *interaction.Record
	capacity  int

	mu     sync.RWMutex
	closed bool
}

// New creates a queue with configuration options.
func New(opts ...Option) *SnapshotQueue {
	q := &SnapshotQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.snapshots = make(chan *interaction.Record, q.capacity)
	metrics.UpdateSnapshotQueueSize(0)
	return q
}

// Submit queues rec. It never blocks: a full queue drops the snapshot and
// returns ErrFull.
func (q *SnapshotQueue) Submit(ctx context.Context, rec *interaction.Record) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.snapshots <- rec:
		metrics.UpdateSnapshotQueueSize(len(q.snapshots))
		return nil
	default:
		metrics.RecordSnapshotDropped()
		return ErrFull
	}
}

// Dequeue returns the delivery channel.
func (q *SnapshotQueue) Dequeue() <-chan *interaction.Record {
	return q.snapshots
}

// Len returns the number of pending snapshots.
func (q *SnapshotQueue) Len() int {
	return len(q.snapshots)
}

// Close stops accepting snapshots. Pending ones stay readable.
func (q *SnapshotQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.snapshots)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *SnapshotQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
