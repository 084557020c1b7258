package usecase

import "errors"

// Sentinel errors the HTTP layer maps onto response statuses. Services wrap
// them with fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
