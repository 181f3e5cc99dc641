package pvs

import (
	"fmt"

	"github.com/notargets/goporous/constraintsolver"
	"github.com/notargets/goporous/types"
)

const (
	Pressure0Idx = 0 // Pressure of phase 0
	Switch0Idx   = 1 // First switching slot
	Conti0EqIdx  = 0 // Balance of component 0, component c is Conti0EqIdx+c
)

// Indices maps the primary variable slots of a vertex to their meaning,
// which depends on the phases present at the vertex. With L the lowest
// present phase, switching slot s is associated with phase s if s < L and
// with phase s+1 otherwise, for s < NumPhases-1. The slot holds the
// saturation of its phase when that phase is present. Every other switching
// slot holds the mole fraction of component s+1 in phase L.
type Indices struct {
	NumPhases, NumComponents int
	EnableEnergy             bool
}

func NewIndices(numPhases, numComponents int, enableEnergy bool) (ix Indices) {
	if numComponents < numPhases {
		panic(fmt.Errorf("%d components cannot describe %d phases", numComponents, numPhases))
	}
	ix = Indices{NumPhases: numPhases, NumComponents: numComponents, EnableEnergy: enableEnergy}
	return
}

func (ix Indices) NumEq() int {
	if ix.EnableEnergy {
		return ix.NumComponents + 1
	}
	return ix.NumComponents
}

// IsSwitchingSlot is true for the slots holding a saturation or a mole
// fraction depending on the phases present
func (ix Indices) IsSwitchingSlot(idx int) bool {
	return idx >= Switch0Idx && idx < ix.NumComponents
}

// TemperatureIdx is both the temperature slot and the energy equation
func (ix Indices) TemperatureIdx() int {
	if !ix.EnableEnergy {
		return -1
	}
	return ix.NumComponents
}

// SwitchPhase is the phase associated with switching slot s, -1 if none
func (ix Indices) SwitchPhase(s int, presence types.PhasePresence) int {
	if s >= ix.NumPhases-1 {
		return -1
	}
	if s >= presence.LowestPresent() {
		return s + 1
	}
	return s
}

// SaturationIdx is the slot holding the saturation of phase p, -1 for the
// lowest present phase, whose saturation is implicit, and absent phases
func (ix Indices) SaturationIdx(p int, presence types.PhasePresence) int {
	L := presence.LowestPresent()
	switch {
	case p == L || !presence.IsPresent(p):
		return -1
	case p > L:
		return Switch0Idx + p - 1
	}
	return Switch0Idx + p
}

// MoleFracIdx is the slot holding the mole fraction of component c in the
// lowest present phase, -1 if it is not a primary variable
func (ix Indices) MoleFracIdx(c int, presence types.PhasePresence) int {
	if c < 1 || c >= ix.NumComponents {
		return -1
	}
	s := c - 1
	if alpha := ix.SwitchPhase(s, presence); alpha >= 0 && presence.IsPresent(alpha) {
		return -1
	}
	return Switch0Idx + s
}

// AuxConstraints are the mole fractions pinned by the switching slots of pv
func (ix Indices) AuxConstraints(pv *types.PrimaryVariables) (aux []constraintsolver.AuxConstraint) {
	L := pv.Presence.LowestPresent()
	for c := 1; c < ix.NumComponents; c++ {
		if idx := ix.MoleFracIdx(c, pv.Presence); idx >= 0 {
			aux = append(aux, constraintsolver.AuxConstraint{PhaseIdx: L, CompIdx: c, Value: pv.Values[idx]})
		}
	}
	return
}

// SlotName describes slot idx for output
func (ix Indices) SlotName(idx int, presence types.PhasePresence) string {
	switch {
	case idx == Pressure0Idx:
		return "p0"
	case idx == ix.TemperatureIdx():
		return "T"
	}
	for p := 0; p < ix.NumPhases; p++ {
		if ix.SaturationIdx(p, presence) == idx {
			return fmt.Sprintf("S%d", p)
		}
	}
	return fmt.Sprintf("x%d,%d", presence.LowestPresent(), idx-Switch0Idx+1)
}
