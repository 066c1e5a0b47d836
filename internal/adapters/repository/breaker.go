package repository

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

// BreakerSupplier stops calling a failing source for a while after
// consecutive failures.
type BreakerSupplier struct {
	next Source
	cb   *gobreaker.CircuitBreaker[[]model.Project]
	opts options
}

// NewBreakerSupplier wraps next with a circuit breaker.
func NewBreakerSupplier(next Source, opts ...Option) *BreakerSupplier {
	o := apply(opts)
	b := &BreakerSupplier{next: next, opts: o}
	b.cb = gobreaker.NewCircuitBreaker[[]model.Project](gobreaker.Settings{
		Name:        o.name,
		MaxRequests: 1,
		Timeout:     o.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.breakerFailures
		},
		IsExcluded: callerGaveUp,
		OnStateChange: func(name string, from, to gobreaker.State) {
			o.log.Warn(context.Background(), "supplier circuit state changed",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			metrics.UpdateBreakerOpen(to == gobreaker.StateOpen)
		},
	})
	return b
}

// Projects calls the wrapped source unless the circuit is open.
func (b *BreakerSupplier) Projects(ctx context.Context) ([]model.Project, error) {
	projects, err := b.cb.Execute(func() ([]model.Project, error) {
		return b.next.Projects(ctx)
	})
	if err != nil {
		metrics.RecordSupplierError(b.opts.name)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		return nil, err
	}
	return projects, nil
}

// callerGaveUp reports errors caused by the caller's context. They say
// nothing about the source's health.
func callerGaveUp(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// State reports the breaker state name: closed, half-open or open.
func (b *BreakerSupplier) State() string {
	return b.cb.State().String()
}
