package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	// ErrDependencyUnavailable marks failures of services the engine depends
	// on but does not own, like the account service behind auth.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
