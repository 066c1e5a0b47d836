package worker

import (
	"context"
	"fmt"

	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

// Queue defines how the writer receives snapshots.
type Queue interface {
	Dequeue() <-chan *interaction.Record
	Len() int
}

// Writer is the single goroutine that saves snapshots. When several are
// pending only the newest is written.
type Writer struct {
	queue   Queue
	persist interaction.Persistence
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWriter creates a writer with configuration options.
func NewWriter(q Queue, persist interaction.Persistence, opts ...Option) *Writer {
	w := &Writer{
		queue:    q,
		persist:  persist,
		name:     "snapshot-writer",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run saves snapshots until ctx is done, Shutdown is called or the queue
// closes. Snapshots still pending at shutdown are coalesced and saved.
func (w *Writer) Run(ctx context.Context) {
	defer close(w.done)

	snapshots := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			if latest := w.drain(snapshots, nil); latest != nil {
				w.save(context.WithoutCancel(ctx), latest)
			}
			return
		case rec, ok := <-snapshots:
			if !ok {
				return
			}
			w.save(ctx, w.drain(snapshots, rec))
		}
	}
}

// drain reads every snapshot already buffered and returns the newest.
func (w *Writer) drain(snapshots <-chan *interaction.Record, latest *interaction.Record) *interaction.Record {
	for {
		select {
		case rec, ok := <-snapshots:
			if !ok {
				return latest
			}
			latest = rec
		default:
			metrics.UpdateSnapshotQueueSize(w.queue.Len())
			return latest
		}
	}
}

func (w *Writer) save(ctx context.Context, rec *interaction.Record) {
	if err := w.persist.Save(ctx, rec); err != nil {
		w.logger.Error(ctx, "save interaction snapshot", logger.Error(err))
	}
}

// Shutdown stops the writer after it flushes pending snapshots.
func (w *Writer) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
