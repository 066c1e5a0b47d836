package discovery

import "errors"

// ErrSupplierUnavailable wraps a failed project fetch.
var ErrSupplierUnavailable = errors.New("project supplier unavailable")
