package usage

import "errors"

var (
	// ErrCapReached indicates the monthly token cap has been consumed.
	ErrCapReached = errors.New("monthly token cap reached")

	// ErrInvalidRecord indicates a usage record is missing required fields.
	ErrInvalidRecord = errors.New("invalid usage record")
)
