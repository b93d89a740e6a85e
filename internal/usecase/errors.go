package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("invalid state")
	ErrNotification          = errors.New("notification failed")
	ErrRateLimited           = errors.New("rate limit exceeded")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
