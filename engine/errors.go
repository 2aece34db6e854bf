package engine

import "errors"

// Conflict errors: the operation was valid but lost a race or repeated one
// that already happened. Callers must not retry by recomputing.
var (
	ErrAlreadySettled = errors.New("game already settled")
	ErrPressLimit     = errors.New("press limit reached")
	ErrNotZeroSum     = errors.New("delta set does not sum to zero")
)

// ValidationError rejects bad press or policy parameters with the exact
// reason, so callers can surface the specific cause rather than a generic 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErr(reason string) error { return &ValidationError{Reason: reason} }
