package interaction

import "errors"

// Sentinel errors for interaction persistence.
var (
	// ErrNotFound is returned by a Persistence with nothing stored yet.
	ErrNotFound  = errors.New("interaction record not found")
	ErrMalformed = errors.New("interaction record malformed")
	ErrEncode    = errors.New("interaction record encode failed")
)
