package simulate

import "errors"

var (
	ErrUnhealthy        = errors.New("service is not healthy")
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyCatalog     = errors.New("service returned no projects")
	ErrInvalidConfig    = errors.New("invalid simulation config")
)
