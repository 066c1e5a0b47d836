package config

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")

	// Wrapped together with ErrInvalidConfig.
	ErrUnknownSource  = errors.New("unknown projects source")
	ErrUnknownBackend = errors.New("unknown persistence backend")
)
