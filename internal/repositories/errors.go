package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a lookup misses, so
// callers can branch with errors.Is regardless of the backing store.
var ErrNotFound = errors.New("record not found")
