package box

import (
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
)

// Model is the physics of a box scheme discretization, V is its volume
// variables type. Flux and outflow values are integrated over the face, i.e.
// already multiplied by the face area.
type Model[V any] interface {
	NumEq() int
	Problem() Problem
	// UpdateVolumeVariables fills vv from the primary variables of vertex v.
	// On error vv must not be used.
	UpdateVolumeVariables(vv *V, pv *types.PrimaryVariables, v grid.Vertex) error
	// ComputeStorage is the conserved quantity per unit volume
	ComputeStorage(result []float64, ctx *ElementContext[V], scvIdx int, usePrevSol bool)
	// ComputeFlux is the flux through sub control volume face faceIdx from
	// its I to its J side
	ComputeFlux(flux []float64, ctx *ElementContext[V], faceIdx int)
	// ComputeSource is the source per unit volume
	ComputeSource(q []float64, ctx *ElementContext[V], scvIdx int)
	// ComputeOutflowValues is the flux leaving through boundary face bfIdx
	// with the interior control volume as the upstream side
	ComputeOutflowValues(values []float64, ctx *ElementContext[V], bfIdx int)
}

// PrimaryVariableSwitcher is implemented by models whose unknowns change
// meaning with the local phase state. It returns true if pv was changed.
type PrimaryVariableSwitcher[V any] interface {
	SwitchPrimaryVariables(pv *types.PrimaryVariables, vv *V, v grid.Vertex) bool
	// IsSwitchingSlot is true if the meaning of slot idx depends on the phase state
	IsSwitchingSlot(idx int) bool
}
