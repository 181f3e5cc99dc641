package box

import (
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
)

// ElementContext is everything the local residual of one element reads. The
// volume variables are owned by the assembler and must not be modified.
type ElementContext[V any] struct {
	Geometry      *grid.ElementGeometry
	Vertices      [4]grid.Vertex
	PrimaryVars   [4]*types.PrimaryVariables
	VolVars       [4]*V
	PrevVolVars   [4]*V
	BoundaryTypes [4]*types.BoundaryTypes
	Dt            float64
}

// VolumeVariables of sub control volume scvIdx at the current or previous
// time level
func (ctx *ElementContext[V]) VolumeVariables(scvIdx int, usePrevSol bool) *V {
	if usePrevSol {
		return ctx.PrevVolVars[scvIdx]
	}
	return ctx.VolVars[scvIdx]
}

func (ctx *ElementContext[V]) HasNeumann() bool {
	return ctx.has((*types.BoundaryTypes).HasNeumann)
}

func (ctx *ElementContext[V]) HasOutflow() bool {
	return ctx.has((*types.BoundaryTypes).HasOutflow)
}

func (ctx *ElementContext[V]) HasDirichlet() bool {
	return ctx.has((*types.BoundaryTypes).HasDirichlet)
}

func (ctx *ElementContext[V]) has(f func(*types.BoundaryTypes) bool) bool {
	for _, bt := range ctx.BoundaryTypes {
		if bt != nil && f(bt) {
			return true
		}
	}
	return false
}
