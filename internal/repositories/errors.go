package repositories

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist, or a
	// conditional update matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates the attempted write would violate a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
)
