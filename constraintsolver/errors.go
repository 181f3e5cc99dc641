package constraintsolver

import (
	"errors"
	"fmt"
)

var (
	ErrNotConverged       = errors.New("constraint solver did not converge")
	ErrSingular           = errors.New("constraint system is singular")
	ErrBadConstraintCount = errors.New("wrong number of auxiliary constraints")
)

// SolveError reports a failed phase equilibrium solve. The fluid state it
// was working on must be discarded.
type SolveError struct {
	Solver     string
	Iterations int
	Change     float64 // Largest mole fraction change of the last iteration
	Err        error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%s: %v after %d iterations, last change %.3g",
		e.Solver, e.Err, e.Iterations, e.Change)
}

func (e *SolveError) Unwrap() error { return e.Err }
