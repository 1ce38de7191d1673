package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrStoreNotConfigured    = errors.New("store not configured")
)

// reasonStoreNotConfigured is reported on results of operations that were
// short-circuited because no store is wired.
const reasonStoreNotConfigured = "store not configured"
