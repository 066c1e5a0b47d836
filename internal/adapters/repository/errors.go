package repository

import "errors"

// Sentinel kinds for supplier errors.
var (
	ErrRead        = errors.New("read projects failed")
	ErrDecode      = errors.New("decode projects failed")
	ErrQuery       = errors.New("query projects failed")
	ErrCircuitOpen = errors.New("project supplier circuit open")
)
