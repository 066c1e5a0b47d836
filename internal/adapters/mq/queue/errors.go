package queue

import "errors"

// Sentinel errors returned by Submit.
var (
	ErrClosed = errors.New("snapshot queue closed")
	ErrFull   = errors.New("snapshot queue full")
)
