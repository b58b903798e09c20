package alerts

import "errors"

var (
	// ErrValidation rejects a request before any state change.
	ErrValidation = errors.New("missing or malformed required field")
	// ErrNotFound covers both absent records and records outside the
	// caller's ownership chain on create/list paths.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden means the record exists but the caller does not own the
	// animal's farm.
	ErrForbidden = errors.New("caller does not own this resource")
	// ErrDuplicate means an unresolved alert already exists for the
	// (animal, type) pair; the dedup invariant refused a second one.
	ErrDuplicate = errors.New("an open alert already exists for this animal and type")
	// ErrConflict means a concurrent writer changed the alert between the
	// ownership read and the guarded update.
	ErrConflict = errors.New("alert changed concurrently, retry")
)
