package repository

import "errors"

// ErrNotFound is returned by updates and deletes that matched no row.
var ErrNotFound = errors.New("record not found")
