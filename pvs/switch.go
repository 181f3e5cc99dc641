package pvs

import (
	"github.com/notargets/goporous/fluidstate"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	log "github.com/sirupsen/logrus"
)

// SwitchCriterion decides the phases present at a vertex from its current
// fluid state
type SwitchCriterion func(fs *fluidstate.Compositional, presence types.PhasePresence, tol float64) types.PhasePresence

// DefaultSwitchCriterion removes a present phase whose saturation dropped
// below -tol and adds an absent phase whose mole fractions sum to more than
// 1+tol. The last present phase is never removed.
func DefaultSwitchCriterion(fs *fluidstate.Compositional, presence types.PhasePresence, tol float64) (newPresence types.PhasePresence) {
	newPresence = presence
	for p := 0; p < fs.NumPhases; p++ {
		if presence.IsPresent(p) {
			if fs.Saturation[p] < -tol && newPresence.NumPresent(fs.NumPhases) > 1 {
				newPresence = newPresence.Clear(p)
			}
		} else if fs.SumMoleFractions(p) > 1+tol {
			newPresence = newPresence.Set(p)
		}
	}
	return
}

// SwitchPrimaryVariables updates the phases present at a vertex and, when
// they changed, rewrites the switching slots of pv from the fluid state of
// vv. Appearing phases start with zero saturation.
func (m *Model) SwitchPrimaryVariables(pv *types.PrimaryVariables, vv *VolumeVariables, v grid.Vertex) (switched bool) {
	newPresence := m.SwitchCriterion(vv.FluidState, pv.Presence, m.SwitchTolerance)
	if newPresence == pv.Presence || newPresence == 0 {
		return
	}
	log.WithFields(log.Fields{
		"vertex": v.Idx,
		"from":   pv.Presence.String(),
		"to":     newPresence.String(),
	}).Debug("phase presence changed")
	fs := vv.FluidState.Copy()
	for p := 0; p < m.NumPhases; p++ {
		if !pv.Presence.IsPresent(p) {
			fs.Saturation[p] = 0
		}
	}
	if L := newPresence.LowestPresent(); !pv.Presence.IsPresent(L) {
		sum := fs.SumMoleFractions(L)
		for c := range fs.MoleFrac[L] {
			fs.MoleFrac[L][c] /= sum
		}
	}
	*pv = m.PrimaryVariables(fs, newPresence)
	switched = true
	return
}

// PrimaryVariables sets up the unknowns of a vertex describing fs with the
// given phases present. The saturation of the lowest present phase and the
// mole fraction of component 0 in it are implicit.
func (m *Model) PrimaryVariables(fs *fluidstate.Compositional, presence types.PhasePresence) (pv types.PrimaryVariables) {
	var (
		L = presence.LowestPresent()
	)
	pv = types.NewPrimaryVariables(m.NumEq(), presence)
	pv.Values[Pressure0Idx] = fs.Pressure[0]
	for p := 0; p < m.NumPhases; p++ {
		if idx := m.SaturationIdx(p, presence); idx >= 0 {
			pv.Values[idx] = fs.Saturation[p]
		}
	}
	for c := 1; c < m.NumComponents; c++ {
		if idx := m.MoleFracIdx(c, presence); idx >= 0 {
			pv.Values[idx] = fs.MoleFrac[L][c]
		}
	}
	if m.EnableEnergy {
		pv.Values[m.TemperatureIdx()] = fs.Temperature[0]
	}
	return
}
