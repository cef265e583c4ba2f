package store

import "errors"

var (
	// ErrNotFound is returned when an update targets a row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCreateFailed is returned when an insert is rejected.
	ErrCreateFailed = errors.New("create failed")
	// ErrQueryFailed is returned when a read fails.
	ErrQueryFailed = errors.New("query failed")
	// ErrMigrationFailed is returned when a schema step cannot be applied.
	ErrMigrationFailed = errors.New("migration failed")
)
