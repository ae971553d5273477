package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidState indicates the state vector picked up NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrNewtonDiverged indicates an implicit step's corrector failed to
	// converge at the smallest admissible step size.
	ErrNewtonDiverged = errors.New("dynamo: newton corrector failed to converge")

	// ErrStepTooSmall indicates the step size fell below Config.MinDt.
	ErrStepTooSmall = errors.New("dynamo: step size below minimum")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// IntegrationError reports that a run could not satisfy its accuracy or
// stability requirements. ReachedTime is how far the solver got before
// giving up; callers must treat the run as failed, not truncated.
type IntegrationError struct {
	ReachedTime float64
	Wrapped     error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integration failed at t=%.4f: %v", e.ReachedTime, e.Wrapped)
}

func (e *IntegrationError) Unwrap() error {
	return e.Wrapped
}
