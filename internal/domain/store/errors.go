package store

import "errors"

// ErrUniqueViolation marks a write rejected by a uniqueness constraint.
// Both the in-memory and the postgres stores surface duplicates through it
// so use cases can translate without knowing the engine.
var ErrUniqueViolation = errors.New("unique constraint violation")
