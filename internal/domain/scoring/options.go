package scoring

import "time"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithParallelism bounds the goroutines used to score one collection.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithParallelThreshold sets the collection size from which scoring fans out.
func WithParallelThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelThreshold = n
		}
	}
}
