package onep2c

import (
	"fmt"

	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/fluidstate"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
)

// Model is a single phase of two miscible components, transported by Darcy
// flow and molecular diffusion. Equation 0 is the total balance, equation 1
// the balance of component 1.
type Model struct {
	problem      box.Problem
	FluidSystem  fluidsystem.FluidSystem
	Basis        fluidstate.UnitBasis
	UpwindWeight float64 // 1 is full upwinding
	// Dispersion returns a hydrodynamic dispersion tensor for a face. It is
	// added to molecular diffusion when set.
	Dispersion func(fv *FluxVariables) [2][2]float64
}

func NewModel(problem box.Problem, fsys fluidsystem.FluidSystem, useMoles bool) (m *Model) {
	if fsys.NumComponents() != 2 {
		panic(fmt.Errorf("fluid system %s has %d components, need 2",
			fsys.Name(), fsys.NumComponents()))
	}
	m = &Model{
		problem:      problem,
		FluidSystem:  fsys,
		Basis:        fluidstate.NewUnitBasis(useMoles),
		UpwindWeight: 1,
	}
	return
}

func (m *Model) NumEq() int           { return 2 }
func (m *Model) Problem() box.Problem { return m.problem }

func (m *Model) UpdateVolumeVariables(vv *VolumeVariables, pv *types.PrimaryVariables, v grid.Vertex) (err error) {
	if vv.FluidState == nil {
		vv.FluidState = fluidsystem.NewFluidState(m.FluidSystem)
	}
	var (
		fs = vv.FluidState
		x1 = pv.Values[X1Idx]
	)
	fs.SetTemperature(m.problem.Temperature(v))
	fs.Saturation[PhaseIdx] = 1
	fs.Pressure[PhaseIdx] = pv.Values[PressureIdx]
	fs.MoleFrac[PhaseIdx][Comp0Idx] = 1 - x1
	fs.MoleFrac[PhaseIdx][Comp1Idx] = x1
	fs.Density[PhaseIdx] = m.FluidSystem.Density(fs, PhaseIdx)
	fs.Viscosity[PhaseIdx] = m.FluidSystem.Viscosity(fs, PhaseIdx)
	if fs.Density[PhaseIdx] <= 0 || fs.Viscosity[PhaseIdx] <= 0 {
		err = fmt.Errorf("non physical fluid state at p = %g: density %g, viscosity %g",
			fs.Pressure[PhaseIdx], fs.Density[PhaseIdx], fs.Viscosity[PhaseIdx])
		return
	}
	vv.DiffCoeff = m.FluidSystem.BinaryDiffusionCoefficient(fs, PhaseIdx, Comp0Idx, Comp1Idx)
	vv.Porosity = m.problem.Porosity(v)
	vv.Tortuosity = m.problem.Tortuosity(v)
	vv.Permeability = m.problem.IntrinsicPermeability(v)
	return
}

func (m *Model) quantity(vv *VolumeVariables) float64 {
	return m.Basis.Quantity(vv.FluidState, PhaseIdx)
}

func (m *Model) fraction(vv *VolumeVariables) float64 {
	return m.Basis.Fraction(vv.FluidState, PhaseIdx, Comp1Idx)
}

func (m *Model) ComputeStorage(result []float64, ctx *box.ElementContext[VolumeVariables], scvIdx int, usePrevSol bool) {
	var (
		vv = ctx.VolumeVariables(scvIdx, usePrevSol)
		Q  = m.quantity(vv)
	)
	result[ContiEqIdx] = Q * vv.Porosity
	result[TransEqIdx] = Q * m.fraction(vv) * vv.Porosity
}

func (m *Model) ComputeFlux(flux []float64, ctx *box.ElementContext[VolumeVariables], faceIdx int) {
	fv := NewFluxVariables(ctx, faceIdx, m.problem.Gravity())
	flux[ContiEqIdx], flux[TransEqIdx] = 0, 0
	m.ComputeAdvectiveFlux(flux, ctx, &fv)
	m.ComputeDiffusiveFlux(flux, &fv)
}

// ComputeAdvectiveFlux adds the Darcy flux of the phase and of component 1,
// weighting upstream and downstream mobilities by the upwind weight
func (m *Model) ComputeAdvectiveFlux(flux []float64, ctx *box.ElementContext[VolumeVariables], fv *FluxVariables) {
	var (
		w      = m.UpwindWeight
		up, dn = ctx.VolVars[fv.UpstreamIdx], ctx.VolVars[fv.DownstreamIdx]
		qUp    = m.quantity(up) / up.Viscosity()
		qDn    = m.quantity(dn) / dn.Viscosity()
	)
	flux[ContiEqIdx] += fv.KmvpNormal * (w*qUp + (1-w)*qDn)
	flux[TransEqIdx] += fv.KmvpNormal * (w*qUp*m.fraction(up) + (1-w)*qDn*m.fraction(dn))
}

// ComputeDiffusiveFlux adds Fickian diffusion of component 1
func (m *Model) ComputeDiffusiveFlux(flux []float64, fv *FluxVariables) {
	var (
		grad = fv.MassFracGrad
		Q    = fv.DensityAtIP
	)
	if m.Basis.UseMoles() {
		grad, Q = fv.MoleFracGrad, fv.MolarDensityAtIP
	}
	flux[TransEqIdx] -= fv.PorousDiffCoeff * Q * utils.Dot2(grad, fv.Normal)
	if m.Dispersion != nil {
		D := m.Dispersion(fv)
		flux[TransEqIdx] -= Q * utils.Dot2(utils.MatVec2(D, grad), fv.Normal)
	}
}

func (m *Model) ComputeSource(q []float64, ctx *box.ElementContext[VolumeVariables], scvIdx int) {
	m.problem.Source(q, ctx.Vertices[scvIdx])
}

// ComputeOutflowValues is the flux through a free outflow boundary: advection
// with the interior vertex upstream plus diffusion down the interior gradient
func (m *Model) ComputeOutflowValues(values []float64, ctx *box.ElementContext[VolumeVariables], bfIdx int) {
	var (
		fv = NewBoundaryVariables(ctx, bfIdx, m.problem.Gravity())
		vv = ctx.VolVars[fv.UpstreamIdx]
		q  = m.quantity(vv) / vv.Viscosity()
	)
	values[ContiEqIdx] = fv.KmvpNormal * q
	values[TransEqIdx] = fv.KmvpNormal * q * m.fraction(vv)
	m.ComputeDiffusiveFlux(values, &fv)
}
