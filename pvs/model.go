package pvs

import (
	"fmt"

	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/constraintsolver"
	"github.com/notargets/goporous/energy"
	"github.com/notargets/goporous/fluidstate"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
)

// Model is a compositional multi phase model using primary variable
// switching. Equation c is the balance of component c, followed by the
// energy balance when enabled.
type Model struct {
	Indices
	problem          box.Problem
	FluidSystem      fluidsystem.FluidSystem
	Basis            fluidstate.UnitBasis
	ConstraintSolver constraintsolver.Strategy
	Energy           energy.Module
	UpwindWeight     float64
	SwitchCriterion  SwitchCriterion
	SwitchTolerance  float64
}

func NewModel(problem box.Problem, fsys fluidsystem.FluidSystem, useMoles, enableEnergy bool) (m *Model) {
	m = &Model{
		Indices:          NewIndices(fsys.NumPhases(), fsys.NumComponents(), enableEnergy),
		problem:          problem,
		FluidSystem:      fsys,
		Basis:            fluidstate.NewUnitBasis(useMoles),
		ConstraintSolver: constraintsolver.New(),
		Energy:           energy.Isothermal{Problem: problem},
		UpwindWeight:     1,
		SwitchCriterion:  DefaultSwitchCriterion,
		SwitchTolerance:  1.e-8,
	}
	if enableEnergy {
		sp, ok := problem.(energy.SolidProblem)
		if !ok {
			panic(fmt.Errorf("problem %T has no solid energy parameters", problem))
		}
		m.Energy = energy.NewMultiPhase(sp, m.TemperatureIdx(), m.TemperatureIdx())
	}
	return
}

func (m *Model) Problem() box.Problem { return m.problem }

func (m *Model) UpdateVolumeVariables(vv *VolumeVariables, pv *types.PrimaryVariables, v grid.Vertex) (err error) {
	if vv.FluidState == nil {
		*vv = newVolumeVariables(fluidsystem.NewFluidState(m.FluidSystem))
	}
	var (
		fs       = vv.FluidState
		np, nc   = m.NumPhases, m.NumComponents
		presence = pv.Presence
		L        = presence.LowestPresent()
		law      = m.problem.MaterialLaw(v)
		sumS     float64
	)
	vv.Presence = presence
	m.Energy.UpdateTemperatures(fs, pv, v)
	for p := 0; p < np; p++ {
		fs.Saturation[p] = 0
		if idx := m.SaturationIdx(p, presence); idx >= 0 {
			fs.Saturation[p] = pv.Values[idx]
		}
		sumS += fs.Saturation[p]
	}
	fs.Saturation[L] = 1 - sumS

	law.CapillaryPressures(vv.pc, fs)
	for p := 0; p < np; p++ {
		fs.Pressure[p] = pv.Values[Pressure0Idx] + (vv.pc[p] - vv.pc[0])
	}

	if presence.NumPresent(np) == 1 {
		var sumX float64
		for c := 1; c < nc; c++ {
			fs.MoleFrac[L][c] = pv.Values[Switch0Idx+c-1]
			sumX += fs.MoleFrac[L][c]
		}
		fs.MoleFrac[L][0] = 1 - sumX
		err = m.ConstraintSolver.ComputeFromReferencePhase(fs, m.FluidSystem, L, true, m.EnableEnergy)
	} else {
		err = m.ConstraintSolver.MiscibleMultiPhaseComposition(fs, m.FluidSystem, presence,
			m.AuxConstraints(pv), true, m.EnableEnergy)
	}
	if err != nil {
		return
	}

	law.RelativePermeabilities(vv.RelPerm, fs)
	for p := 0; p < np; p++ {
		vv.Mobility[p] = vv.RelPerm[p] / fs.Viscosity[p]
	}
	vv.Porosity = m.problem.Porosity(v)
	vv.Tortuosity = m.problem.Tortuosity(v)
	vv.Permeability = m.problem.IntrinsicPermeability(v)
	for p := 0; p < np; p++ {
		for c := 1; c < nc; c++ {
			vv.DiffCoeff[p][c] = m.FluidSystem.BinaryDiffusionCoefficient(fs, p, 0, c)
		}
	}
	m.Energy.Update(&vv.Energy, fs, m.FluidSystem, v, vv.Porosity)
	return
}

// ComputeStorage is sum_p phi S_p Q_p F_pc for every component c, plus the
// energy storage when enabled
func (m *Model) ComputeStorage(result []float64, ctx *box.ElementContext[VolumeVariables], scvIdx int, usePrevSol bool) {
	var (
		vv = ctx.VolumeVariables(scvIdx, usePrevSol)
		fs = vv.FluidState
	)
	for c := 0; c < m.NumComponents; c++ {
		result[Conti0EqIdx+c] = 0
		for p := 0; p < m.NumPhases; p++ {
			result[Conti0EqIdx+c] += vv.Porosity * fs.Saturation[p] *
				m.Basis.Quantity(fs, p) * m.Basis.Fraction(fs, p, c)
		}
	}
	m.Energy.Storage(result, &vv.Energy, fs, vv.Porosity)
}

func (m *Model) ComputeFlux(flux []float64, ctx *box.ElementContext[VolumeVariables], faceIdx int) {
	var (
		face   = &ctx.Geometry.Scvf[faceIdx]
		fv     = m.newFluxVariables(ctx, face.Shape, face.Grad, face.Normal)
		vi, vj = ctx.VolVars[face.I], ctx.VolVars[face.J]
		K      = utils.HarmonicMeanTensor(vi.Permeability, vj.Permeability)
	)
	for p := 0; p < m.NumPhases; p++ {
		fv.setDarcy(p, K, face.I, face.J)
		for c := 1; c < m.NumComponents; c++ {
			fv.PorousDiffCoeff[p][c] = utils.HarmonicMean(vi.PorousDiffCoeff(p, c), vj.PorousDiffCoeff(p, c))
		}
	}
	m.computeFlux(flux, ctx, &fv)
	m.Energy.ConductiveFlux(flux, &vi.Energy, &vj.Energy, fv.TemperatureGrad, fv.Normal)
}

func (m *Model) computeFlux(flux []float64, ctx *box.ElementContext[VolumeVariables], fv *FluxVariables) {
	for i := range flux {
		flux[i] = 0
	}
	for p := 0; p < m.NumPhases; p++ {
		m.ComputeAdvectiveFlux(flux, ctx, fv, p)
		m.ComputeDiffusiveFlux(flux, fv, p)
	}
}

// ComputeAdvectiveFlux adds the Darcy flux of phase p for every component
func (m *Model) ComputeAdvectiveFlux(flux []float64, ctx *box.ElementContext[VolumeVariables], fv *FluxVariables, p int) {
	var (
		w      = m.UpwindWeight
		up, dn = ctx.VolVars[fv.UpstreamIdx[p]], ctx.VolVars[fv.DownstreamIdx[p]]
		qUp    = up.Mobility[p] * m.Basis.Quantity(up.FluidState, p)
		qDn    = dn.Mobility[p] * m.Basis.Quantity(dn.FluidState, p)
	)
	for c := 0; c < m.NumComponents; c++ {
		flux[Conti0EqIdx+c] += fv.KmvpNormal[p] *
			(w*qUp*m.Basis.Fraction(up.FluidState, p, c) + (1-w)*qDn*m.Basis.Fraction(dn.FluidState, p, c))
	}
	m.Energy.AdvectiveFlux(flux, fv.KmvpNormal[p], w, energyPhase(up, p), energyPhase(dn, p))
}

func energyPhase(vv *VolumeVariables, p int) energy.Phase {
	return energy.Phase{
		Mobility: vv.Mobility[p],
		Density:  vv.FluidState.Density[p],
		Enthalpy: vv.FluidState.Enthalpy[p],
	}
}

// ComputeDiffusiveFlux adds Fickian diffusion of the components c > 0 in
// phase p. Component 0 carries the opposite flux so that diffusion moves no
// net quantity.
func (m *Model) ComputeDiffusiveFlux(flux []float64, fv *FluxVariables, p int) {
	for c := 1; c < m.NumComponents; c++ {
		j := -fv.PorousDiffCoeff[p][c] * fv.QuantityAtIP[p] * utils.Dot2(fv.FracGrad[p][c], fv.Normal)
		flux[Conti0EqIdx+c] += j
		flux[Conti0EqIdx] -= j
	}
}

func (m *Model) ComputeSource(q []float64, ctx *box.ElementContext[VolumeVariables], scvIdx int) {
	m.problem.Source(q, ctx.Vertices[scvIdx])
}

// ComputeOutflowValues is the flux through a free outflow boundary face with
// the parameters of its own control volume, which is upstream
func (m *Model) ComputeOutflowValues(values []float64, ctx *box.ElementContext[VolumeVariables], bfIdx int) {
	var (
		bf = &ctx.Geometry.Boundary[bfIdx]
		fv = m.newFluxVariables(ctx, bf.Shape, bf.Grad, bf.Normal)
		vv = ctx.VolVars[bf.ScvIdx]
	)
	for p := 0; p < m.NumPhases; p++ {
		fv.setDarcy(p, vv.Permeability, bf.ScvIdx, bf.ScvIdx)
		fv.UpstreamIdx[p], fv.DownstreamIdx[p] = bf.ScvIdx, bf.ScvIdx
		for c := 1; c < m.NumComponents; c++ {
			fv.PorousDiffCoeff[p][c] = vv.PorousDiffCoeff(p, c)
		}
	}
	m.computeFlux(values, ctx, &fv)
	m.Energy.ConductiveFlux(values, &vv.Energy, &vv.Energy, fv.TemperatureGrad, fv.Normal)
}
