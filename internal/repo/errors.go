package repo

import "errors"

// Sentinel errors the handler layer maps to HTTP statuses.
var (
	// ErrNotFound means the row does not exist (404).
	ErrNotFound = errors.New("not found")

	// ErrConflict means a unique constraint was violated (409).
	ErrConflict = errors.New("already exists")

	// ErrForbidden means a conditional mutation matched zero rows. The caller
	// cannot tell "missing" from "not owned" and that is intentional (403).
	ErrForbidden = errors.New("forbidden")
)
