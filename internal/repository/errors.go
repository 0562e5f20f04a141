package repository

import "errors"

// ErrStaleWrite means a compare-and-swap update matched no row: the row
// changed (or vanished) since it was read.
var ErrStaleWrite = errors.New("stale write: row changed since read")
