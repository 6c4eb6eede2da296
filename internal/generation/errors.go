package generation

import (
	"errors"
	"strings"

	"resume-engine/internal/prompts"
)

// ErrJobClosed is returned when the posting does not accept generations.
var ErrJobClosed = errors.New("job posting is not open")

// ValidationError lists every problem found in a generation request. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Errors []prompts.FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid generation request: " + strings.Join(parts, "; ")
}
