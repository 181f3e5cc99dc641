package onep2c

import (
	"math"
	"testing"

	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProblem struct {
	box.BaseProblem
	bc func(bt *types.BoundaryTypes, v grid.Vertex)
	K  float64
}

func (p *testProblem) BoundaryTypes(bt *types.BoundaryTypes, v grid.Vertex) { p.bc(bt, v) }
func (p *testProblem) Porosity(v grid.Vertex) float64                       { return 0.4 }
func (p *testProblem) Tortuosity(v grid.Vertex) float64                     { return 0.5 }
func (p *testProblem) Temperature(v grid.Vertex) float64                    { return 293.15 }
func (p *testProblem) IntrinsicPermeability(v grid.Vertex) [2][2]float64 {
	return utils.IsotropicTensor(p.K)
}

func (p *testProblem) Dirichlet(values []float64, v grid.Vertex) {
	values[PressureIdx], values[X1Idx] = 2.e5, 1.e-3
}

func closedBox(bt *types.BoundaryTypes, v grid.Vertex) { bt.SetAllNeumann() }

func column(bt *types.BoundaryTypes, v grid.Vertex) {
	switch {
	case v.OnSide(grid.Left):
		bt.SetAllDirichlet()
	case v.OnSide(grid.Right):
		bt.SetAllOutflow()
	default:
		bt.SetAllNeumann()
	}
}

type field func(x [2]float64) (p, x1 float64)

func newContext(m *Model, g *grid.Rect2D, k int, f field) (ctx *box.ElementContext[VolumeVariables]) {
	ctx = &box.ElementContext[VolumeVariables]{Geometry: g.Geometry(k), Dt: 1}
	for i, vIdx := range ctx.Geometry.Vertices {
		var (
			v    = g.Vertices[vIdx]
			prim = types.NewPrimaryVariables(2, types.OnlyPhase(PhaseIdx))
			vv   = &VolumeVariables{}
			bt   = types.NewBoundaryTypes(2)
		)
		prim.Values[PressureIdx], prim.Values[X1Idx] = f(v.X)
		if err := m.UpdateVolumeVariables(vv, &prim, v); err != nil {
			panic(err)
		}
		if v.OnBoundary() {
			m.Problem().BoundaryTypes(&bt, v)
		}
		ctx.Vertices[i] = v
		ctx.PrimaryVars[i] = &prim
		ctx.VolVars[i] = vv
		ctx.PrevVolVars[i] = vv
		ctx.BoundaryTypes[i] = &bt
	}
	return
}

func TestMassMoleEquivalence(t *testing.T) {
	var (
		p     = &testProblem{bc: closedBox, K: 1.e-11}
		g     = grid.NewRect2D(4, 2, 1, 0.5)
		fsys  = fluidsystem.NewLiquidTracer()
		mMass = NewModel(p, fsys, false)
		mMole = NewModel(p, fsys, true)
		f     = func(x [2]float64) (float64, float64) { return 2.e5 - 3.e4*x[0] + 1.e4*x[1], 0.02 }
		M1    = fsys.MolarMass(Comp1Idx)
	)
	ctxMass, ctxMole := newContext(mMass, g, 1, f), newContext(mMole, g, 1, f)
	{ // Storage
		sMass, sMole := make([]float64, 2), make([]float64, 2)
		for scv := 0; scv < 4; scv++ {
			mMass.ComputeStorage(sMass, ctxMass, scv, false)
			mMole.ComputeStorage(sMole, ctxMole, scv, false)
			Mbar := ctxMole.VolVars[scv].FluidState.AverageMolarMass(PhaseIdx)
			assert.InEpsilon(t, sMass[ContiEqIdx], sMole[ContiEqIdx]*Mbar, 1.e-10)
			assert.InEpsilon(t, sMass[TransEqIdx], sMole[TransEqIdx]*M1, 1.e-10)
		}
	}
	{ // Fluxes, with uniform composition there is no diffusion
		fMass, fMole := make([]float64, 2), make([]float64, 2)
		Mbar := ctxMole.VolVars[0].FluidState.AverageMolarMass(PhaseIdx)
		for face := 0; face < 4; face++ {
			mMass.ComputeFlux(fMass, ctxMass, face)
			mMole.ComputeFlux(fMole, ctxMole, face)
			assert.InEpsilon(t, fMass[ContiEqIdx], fMole[ContiEqIdx]*Mbar, 1.e-10)
			assert.InEpsilon(t, fMass[TransEqIdx], fMole[TransEqIdx]*M1, 1.e-10)
		}
	}
}

func TestUpwinding(t *testing.T) {
	var (
		K    = 1.e-11
		p    = &testProblem{bc: closedBox, K: K}
		g    = grid.NewRect2D(2, 2, 1, 1)
		fsys = fluidsystem.NewLiquidTracer()
		m    = NewModel(p, fsys, false)
		flux = make([]float64, 2)
	)
	{ // Pressure falling in +x, face 0 points from vertex 0 to 1
		ctx := newContext(m, g, 0, func(x [2]float64) (float64, float64) { return 2.e5 - 1.e4*x[0], 0.01 })
		fv := NewFluxVariables(ctx, 0, p.Gravity())
		assert.InEpsilon(t, K*1.e4*0.5*g.DY, fv.KmvpNormal, 1.e-10)
		assert.Equal(t, 0, fv.UpstreamIdx)
		assert.Equal(t, 1, fv.DownstreamIdx)
		m.ComputeFlux(flux, ctx, 0)
		up := ctx.VolVars[0]
		assert.InEpsilon(t, fv.KmvpNormal*up.Density()/up.Viscosity(), flux[ContiEqIdx], 1.e-12)
		assert.True(t, flux[ContiEqIdx] > 0)

		m.UpwindWeight = 0.5
		m.ComputeFlux(flux, ctx, 0)
		mean := 0.5 * (ctx.VolVars[0].Density() + ctx.VolVars[1].Density()) / up.Viscosity()
		assert.InEpsilon(t, fv.KmvpNormal*mean, flux[ContiEqIdx], 1.e-12)
		m.UpwindWeight = 1
	}
	{ // Reversed gradient makes vertex 1 upstream
		ctx := newContext(m, g, 0, func(x [2]float64) (float64, float64) { return 2.e5 + 1.e4*x[0], 0.01 })
		fv := NewFluxVariables(ctx, 0, p.Gravity())
		assert.True(t, fv.KmvpNormal < 0)
		assert.Equal(t, 1, fv.UpstreamIdx)
		m.ComputeFlux(flux, ctx, 0)
		up := ctx.VolVars[1]
		assert.InEpsilon(t, fv.KmvpNormal*up.Density()/up.Viscosity(), flux[ContiEqIdx], 1.e-12)
		assert.InEpsilon(t, flux[ContiEqIdx]*up.MassFrac(Comp1Idx), flux[TransEqIdx], 1.e-12)
	}
	{ // Hydrostatic pressure with gravity has no flux
		pg := &testProblem{bc: closedBox, K: K}
		pg.EnableGravity = true
		mg := NewModel(pg, fsys, false)
		rho := fluidsystem.Water.Calc(2.e5)
		ctx := newContext(mg, g, 0, func(x [2]float64) (float64, float64) { return 2.e5 - 9.81*rho*x[1], 0.01 })
		fv := NewFluxVariables(ctx, 2, pg.Gravity())
		assert.InDelta(t, 0., fv.KmvpNormal, 1.e-3*K*9.81*rho)
	}
}

func TestDiffusionAndDispersion(t *testing.T) {
	var (
		p    = &testProblem{bc: closedBox, K: 1.e-11}
		g    = grid.NewRect2D(2, 2, 1, 1)
		fsys = fluidsystem.NewLiquidTracer()
		m    = NewModel(p, fsys, true)
		flux = make([]float64, 2)
		f    = func(x [2]float64) (float64, float64) { return 2.e5, 0.01 + 0.02*x[0] }
	)
	ctx := newContext(m, g, 0, f)
	fv := NewFluxVariables(ctx, 0, p.Gravity())
	assert.InDelta(t, 0., fv.KmvpNormal, 1.e-30)
	assert.InDelta(t, 0.02, fv.MoleFracGrad[0], 1.e-14)
	Dpm := 0.4 * 0.5 * fsys.Diffusion
	assert.InEpsilon(t, Dpm, fv.PorousDiffCoeff, 1.e-12)
	m.ComputeFlux(flux, ctx, 0)
	diffusive := -Dpm * fv.MolarDensityAtIP * 0.02 * 0.5 * g.DY
	assert.InDelta(t, 0., flux[ContiEqIdx], 1.e-20)
	assert.InEpsilon(t, diffusive, flux[TransEqIdx], 1.e-10)

	m.Dispersion = func(fv *FluxVariables) [2][2]float64 { return utils.IsotropicTensor(3 * Dpm) }
	m.ComputeFlux(flux, ctx, 0)
	assert.InEpsilon(t, 4*diffusive, flux[TransEqIdx], 1.e-10)
}

func TestBoundary(t *testing.T) {
	var (
		p  = &testProblem{bc: column, K: 1.e-11}
		g  = grid.NewRect2D(2, 2, 1, 1)
		m  = NewModel(p, fluidsystem.NewLiquidTracer(), false)
		lr = box.NewLocalResidual[VolumeVariables](m)
		f  = func(x [2]float64) (float64, float64) { return 2.e5 - 1.e4*x[0], 0.001 + 0.002*x[1] }
	)
	for _, k := range []int{0, 1, 3} {
		ctx := newContext(m, g, k, f)
		lr.EvalBoundary(ctx)
		first := make([][]float64, 4)
		for i := range first {
			first[i] = append([]float64{}, lr.Residual[i]...)
		}
		lr.EvalBoundary(ctx)
		for i := range first {
			assert.Equal(t, first[i], lr.Residual[i])
		}
		for i, v := range ctx.Vertices {
			if v.OnSide(grid.Left) {
				// Dirichlet rows are the deviation from the prescribed state
				assert.Equal(t, ctx.PrimaryVars[i].Values[PressureIdx]-2.e5, lr.Residual[i][PressureIdx])
				assert.Equal(t, ctx.PrimaryVars[i].Values[X1Idx]-1.e-3, lr.Residual[i][X1Idx])
			}
		}
	}
	{ // Flow leaves through the right side
		ctx := newContext(m, g, 1, f)
		values := make([]float64, 2)
		for b, bf := range ctx.Geometry.Boundary {
			if bf.Side != grid.Right {
				continue
			}
			m.ComputeOutflowValues(values, ctx, b)
			vv := ctx.VolVars[bf.ScvIdx]
			Kmvp := 1.e-11 * 1.e4 * bf.Area
			assert.InEpsilon(t, Kmvp*vv.Density()/vv.Viscosity(), values[ContiEqIdx], 1.e-10)
			assert.True(t, values[TransEqIdx] > 0)
		}
	}
}

func TestConservation(t *testing.T) {
	var (
		p = &testProblem{bc: closedBox, K: 1.e-11}
		g = grid.NewRect2D(6, 3, 2, 1)
	)
	p.EnableGravity = true
	for _, useMoles := range []bool{false, true} {
		m := NewModel(p, fluidsystem.NewLiquidTracer(), useMoles)
		a := box.NewAssembler[VolumeVariables](g, m, 3)
		require.NoError(t, a.SetInitialSolution(func(v grid.Vertex) types.PrimaryVariables {
			pv := types.NewPrimaryVariables(2, types.OnlyPhase(PhaseIdx))
			pv.Values[PressureIdx] = 2.e5 + 1.e4*math.Sin(3*v.X[0])
			pv.Values[X1Idx] = 0.01 * (1 + v.X[0]*v.X[1])
			return pv
		}))
		a.SetTimeStep(100)
		before, err := a.StorageTotals()
		require.NoError(t, err)
		x := a.Unknowns()
		for i := range x {
			if i%2 == PressureIdx {
				x[i] += 50 * math.Cos(float64(i))
			} else {
				x[i] *= 1 + 0.1*math.Sin(float64(i))
			}
		}
		a.SetUnknowns(x)
		r, err := a.Residual()
		require.NoError(t, err)
		after, err := a.StorageTotals()
		require.NoError(t, err)
		for eq := 0; eq < 2; eq++ {
			var sum float64
			for v := 0; v < g.NumVertices(); v++ {
				sum += r[v*2+eq]
			}
			change := (after[eq] - before[eq]) / 100
			assert.InDelta(t, change, sum, 1.e-9*math.Abs(after[eq])/100)
		}
	}
}
