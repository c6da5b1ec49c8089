package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integration.
var (
	// ErrStepTooSmall indicates the adaptive step size collapsed below the
	// configured minimum without an acceptable error estimate.
	ErrStepTooSmall = errors.New("ode: adaptive step below minimum")

	// ErrTooManySteps indicates the step budget ran out before reaching tf.
	ErrTooManySteps = errors.New("ode: step limit exceeded")

	// ErrDiverged indicates a non-finite value in the state or its
	// derivative. Fatal; retrying with the same problem cannot help.
	ErrDiverged = errors.New("ode: non-finite state (NaN or Inf detected)")
)

// SolveError wraps an integration failure with the last valid point and the
// partial record accumulated so far, so partial results are not discarded.
type SolveError struct {
	Step    int
	Time    float64
	State   State
	Partial *Record
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
