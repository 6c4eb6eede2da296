package drafts

import "errors"

var (
	// ErrNotFound indicates a draft was not found.
	ErrNotFound = errors.New("draft not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrVersionConflict indicates the next version for a pair could not be claimed.
	ErrVersionConflict = errors.New("draft version conflict")
)
