package metadata

import "errors"

// ErrNotFound is returned when every provider missed. It is a normal
// negative result, not a failure: callers treat metadata as unknown.
var ErrNotFound = errors.New("metadata not found")
