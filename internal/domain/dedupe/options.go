package dedupe

// Option applies a configuration option to the Ring.
type Option func(*Ring)

// WithMaxSize sets how many event ids are remembered.
func WithMaxSize(maxSize int) Option {
	return func(r *Ring) {
		if maxSize > 0 {
			r.maxSize = maxSize
		}
	}
}
