package onep2c

import (
	"github.com/notargets/goporous/fluidstate"
)

const (
	// Equations
	ContiEqIdx = 0
	TransEqIdx = 1
	// Primary variables
	PressureIdx = 0
	X1Idx       = 1 // Mole fraction of the transported component

	PhaseIdx = 0
	Comp0Idx = 0
	Comp1Idx = 1
)

// VolumeVariables are the secondary variables of one sub control volume
type VolumeVariables struct {
	FluidState   *fluidstate.Compositional
	Porosity     float64
	Tortuosity   float64
	Permeability [2][2]float64
	DiffCoeff    float64 // Binary diffusion coefficient in the free fluid
}

func (vv *VolumeVariables) Pressure() float64     { return vv.FluidState.Pressure[PhaseIdx] }
func (vv *VolumeVariables) Density() float64      { return vv.FluidState.Density[PhaseIdx] }
func (vv *VolumeVariables) MolarDensity() float64 { return vv.FluidState.MolarDensity(PhaseIdx) }
func (vv *VolumeVariables) Viscosity() float64    { return vv.FluidState.Viscosity[PhaseIdx] }
func (vv *VolumeVariables) MoleFrac(c int) float64 {
	return vv.FluidState.MoleFrac[PhaseIdx][c]
}
func (vv *VolumeVariables) MassFrac(c int) float64 {
	return vv.FluidState.MassFraction(PhaseIdx, c)
}

// PorousDiffCoeff is the effective diffusion coefficient of the porous medium
func (vv *VolumeVariables) PorousDiffCoeff() float64 {
	return vv.Porosity * vv.Tortuosity * vv.DiffCoeff
}
