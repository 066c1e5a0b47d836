package scoring

import "errors"

// ErrUnknownMode is returned for a mode name with no weight profile.
var ErrUnknownMode = errors.New("unknown scoring mode")
