package box

import (
	"errors"
	"fmt"
)

var ErrInvalidState = errors.New("non finite residual")

// EvaluationError reports a failed residual evaluation. No part of the
// evaluation that produced it is retained.
type EvaluationError struct {
	VertexIdx int // -1 if not tied to a vertex
	ElemIdx   int // -1 if not tied to an element
	Err       error
}

func (e *EvaluationError) Error() string {
	switch {
	case e.VertexIdx >= 0:
		return fmt.Sprintf("vertex %d: %v", e.VertexIdx, e.Err)
	case e.ElemIdx >= 0:
		return fmt.Sprintf("element %d: %v", e.ElemIdx, e.Err)
	}
	return e.Err.Error()
}

func (e *EvaluationError) Unwrap() error { return e.Err }
