package api

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithDefaultLimit sets the list length used when a request gives none.
func WithDefaultLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithMaxLimit sets the largest accepted limit.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}
