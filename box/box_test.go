package box

import (
	"errors"
	"math"
	"testing"

	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// scalarVars carries two independent scalar fields
type scalarVars struct {
	U [2]float64
}

type testProblem struct {
	BaseProblem
	bc        func(bt *types.BoundaryTypes, v grid.Vertex)
	neumann   float64
	dirichlet float64
	source    float64
}

func (p *testProblem) BoundaryTypes(bt *types.BoundaryTypes, v grid.Vertex) { p.bc(bt, v) }

func (p *testProblem) Dirichlet(values []float64, v grid.Vertex) {
	values[0], values[1] = p.dirichlet, p.dirichlet
}

func (p *testProblem) Neumann(values []float64, v grid.Vertex, bf *grid.BoundaryFace) {
	values[0], values[1] = p.neumann, p.neumann
}

func (p *testProblem) Source(q []float64, v grid.Vertex) {
	q[0], q[1] = p.source, p.source
}

// advectionDiffusion is linear in its unknowns, both equations identical
type advectionDiffusion struct {
	problem  Problem
	D        float64
	velocity [2]float64
	failAt   int
}

func (m *advectionDiffusion) NumEq() int       { return 2 }
func (m *advectionDiffusion) Problem() Problem { return m.problem }

func (m *advectionDiffusion) UpdateVolumeVariables(vv *scalarVars, pv *types.PrimaryVariables, v grid.Vertex) error {
	if v.Idx == m.failAt {
		return errors.New("bad vertex")
	}
	vv.U[0], vv.U[1] = pv.Values[0], pv.Values[1]
	return nil
}

func (m *advectionDiffusion) ComputeStorage(result []float64, ctx *ElementContext[scalarVars], scvIdx int, usePrevSol bool) {
	vv := ctx.VolumeVariables(scvIdx, usePrevSol)
	result[0], result[1] = vv.U[0], vv.U[1]
}

func (m *advectionDiffusion) ComputeFlux(flux []float64, ctx *ElementContext[scalarVars], faceIdx int) {
	face := &ctx.Geometry.Scvf[faceIdx]
	for eq := 0; eq < 2; eq++ {
		var u [4]float64
		for k := 0; k < 4; k++ {
			u[k] = ctx.VolVars[k].U[eq]
		}
		flux[eq] = -m.D * utils.Dot2(grid.Gradient(face.Grad, u), face.Normal)
	}
}

func (m *advectionDiffusion) ComputeSource(q []float64, ctx *ElementContext[scalarVars], scvIdx int) {
	m.problem.Source(q, ctx.Vertices[scvIdx])
}

func (m *advectionDiffusion) ComputeOutflowValues(values []float64, ctx *ElementContext[scalarVars], bfIdx int) {
	bf := &ctx.Geometry.Boundary[bfIdx]
	vv := ctx.VolVars[bf.ScvIdx]
	for eq := 0; eq < 2; eq++ {
		values[eq] = vv.U[eq] * utils.Dot2(m.velocity, bf.Normal)
	}
}

func closedBox(bt *types.BoundaryTypes, v grid.Vertex) { bt.SetAllNeumann() }

func newTestAssembler(p *testProblem, procs int) (a *Assembler[scalarVars], m *advectionDiffusion) {
	g := grid.NewRect2D(5, 4, 1., 0.8)
	m = &advectionDiffusion{problem: p, D: 0.3, velocity: [2]float64{1, 0}, failAt: -1}
	a = NewAssembler[scalarVars](g, m, procs)
	return
}

func field(x [2]float64) float64 { return 1 + x[0] + 2*x[1]*x[1] }

func initial(v grid.Vertex) types.PrimaryVariables {
	pv := types.NewPrimaryVariables(2, types.OnlyPhase(0))
	pv.Values[0], pv.Values[1] = field(v.X), 2*field(v.X)
	return pv
}

func TestResidualConservation(t *testing.T) {
	p := &testProblem{bc: closedBox}
	a, _ := newTestAssembler(p, 3)
	require.NoError(t, a.SetInitialSolution(initial))
	a.SetTimeStep(0.1)
	{ // Unchanged steady linear field: only interior diffusion, which sums to zero
		r, err := a.Residual()
		require.NoError(t, err)
		var sum float64
		for v := 0; v < a.Grid.NumVertices(); v++ {
			sum += r[v*2]
		}
		assert.InDelta(t, 0., sum, 1.e-12)
	}
	{ // Residual sum equals the storage change
		x := a.Unknowns()
		for v := range a.Grid.Vertices {
			x[v*2] += math.Sin(float64(v))
		}
		a.SetUnknowns(x)
		r, err := a.Residual()
		require.NoError(t, err)
		var sum, change float64
		for v := 0; v < a.Grid.NumVertices(); v++ {
			sum += r[v*2]
			change += math.Sin(float64(v)) * a.Grid.VertexVolume(v) / 0.1
		}
		assert.InDelta(t, change, sum, 1.e-11)
		totals, err := a.StorageTotals()
		require.NoError(t, err)
		var want float64
		for v := 0; v < a.Grid.NumVertices(); v++ {
			want += x[v*2] * a.Grid.VertexVolume(v)
		}
		assert.InDelta(t, want, totals[0], 1.e-12)
	}
	{ // Serial and parallel assembly agree
		serial, _ := newTestAssembler(p, 1)
		require.NoError(t, serial.SetInitialSolution(initial))
		serial.SetTimeStep(0.1)
		serial.SetUnknowns(a.Unknowns())
		rs, err := serial.Residual()
		require.NoError(t, err)
		rp, err := a.Residual()
		require.NoError(t, err)
		assert.InDeltaSlice(t, rs, rp, 1.e-13)
	}
	{ // A source is balanced by storage
		ps := &testProblem{bc: closedBox, source: 2}
		as, _ := newTestAssembler(ps, 2)
		require.NoError(t, as.SetInitialSolution(initial))
		r, err := as.Residual()
		require.NoError(t, err)
		var sum float64
		for v := 0; v < as.Grid.NumVertices(); v++ {
			sum += r[v*2+1]
		}
		assert.InDelta(t, -2*0.8, sum, 1.e-12)
	}
}

func TestJacobian(t *testing.T) {
	for _, name := range []string{"forward", "central"} {
		p := &testProblem{bc: func(bt *types.BoundaryTypes, v grid.Vertex) {
			bt.SetAllNeumann()
			if v.OnSide(grid.Right) {
				bt.SetAllOutflow()
			}
			if v.OnSide(grid.Left) {
				bt.SetAllDirichlet()
			}
		}, neumann: 0.5, dirichlet: 3}
		a, _ := newTestAssembler(p, 2)
		formula, err := ParseFormula(name)
		require.NoError(t, err)
		a.Formula = formula
		require.NoError(t, a.SetInitialSolution(initial))
		a.SetTimeStep(0.5)
		J, r0, err := a.Assemble()
		require.NoError(t, err)
		x0 := a.Unknowns()
		{ // The model is linear, so J d = r(x+d) - r(x)
			x := a.Unknowns()
			d := make([]float64, len(x))
			for i := range d {
				d[i] = 0.01 * math.Cos(float64(i))
				x[i] += d[i]
			}
			a.SetUnknowns(x)
			r1, err := a.Residual()
			require.NoError(t, err)
			for i := range r0 {
				var Jd float64
				for j := range d {
					Jd += J.At(i, j) * d[j]
				}
				assert.InDelta(t, r1[i]-r0[i], Jd, 1.e-6)
			}
		}
		{ // Dirichlet rows are identities, their residual is taken at the unperturbed state
			a.SetUnknowns(x0)
			for _, v := range a.Grid.Vertices {
				if !v.OnSide(grid.Left) {
					continue
				}
				row := v.Idx * 2
				assert.Equal(t, 1., J.At(row, row))
				for j := 0; j < a.NumUnknowns(); j++ {
					if j != row {
						assert.Equal(t, 0., J.At(row, j))
					}
				}
				assert.InDelta(t, x0[row]-3, r0[row], 1.e-14)
			}
		}
	}
	_, err := ParseFormula("spline")
	assert.Error(t, err)
	f, _ := ParseFormula("backward")
	assert.Equal(t, fd.Backward.Step, f.Step)
}

func TestEvalBoundary(t *testing.T) {
	p := &testProblem{bc: func(bt *types.BoundaryTypes, v grid.Vertex) {
		bt.SetNeumann(1)
		bt.SetOutflow(0)
	}, neumann: 2}
	a, m := newTestAssembler(p, 1)
	require.NoError(t, a.SetInitialSolution(initial))
	var (
		lr  = NewLocalResidual[scalarVars](m)
		ctx ElementContext[scalarVars]
	)
	// Bottom right corner element has two boundary segments
	a.buildContext(&ctx, a.Grid.NX-1)
	require.Equal(t, 4, len(ctx.Geometry.Boundary))
	lr.EvalBoundary(&ctx)
	first := [][]float64{append([]float64{}, lr.Residual[0]...), append([]float64{}, lr.Residual[1]...),
		append([]float64{}, lr.Residual[2]...), append([]float64{}, lr.Residual[3]...)}
	lr.EvalBoundary(&ctx)
	for i := range first {
		assert.Equal(t, first[i], lr.Residual[i])
	}
	{ // Outflow only enters equation 0, Neumann only equation 1
		var out, neu [4]float64
		for _, bf := range ctx.Geometry.Boundary {
			out[bf.ScvIdx] += ctx.VolVars[bf.ScvIdx].U[0] * utils.Dot2(m.velocity, bf.Normal)
			neu[bf.ScvIdx] += 2 * bf.Area
		}
		for i := 0; i < 4; i++ {
			assert.InDelta(t, out[i], lr.Residual[i][0], 1.e-15)
			assert.InDelta(t, neu[i], lr.Residual[i][1], 1.e-15)
		}
		// Interior vertex 2 of this element sees nothing
		assert.Equal(t, []float64{0, 0}, lr.Residual[2])
	}
	{ // Full evaluation is idempotent as well
		require.NoError(t, lr.Eval(&ctx))
		once := append([]float64{}, lr.Residual[1]...)
		require.NoError(t, lr.Eval(&ctx))
		assert.Equal(t, once, lr.Residual[1])
	}
}

func TestEvaluationFailures(t *testing.T) {
	p := &testProblem{bc: closedBox}
	{ // Volume variable failure names the vertex
		a, m := newTestAssembler(p, 2)
		require.NoError(t, a.SetInitialSolution(initial))
		m.failAt = 7
		_, err := a.Residual()
		var ee *EvaluationError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, 7, ee.VertexIdx)
		_, _, err = a.Assemble()
		assert.Error(t, err)
	}
	{ // Non finite residuals
		a, _ := newTestAssembler(p, 2)
		require.NoError(t, a.SetInitialSolution(initial))
		x := a.Unknowns()
		x[10] = math.NaN()
		a.SetUnknowns(x)
		_, err := a.Residual()
		assert.True(t, errors.Is(err, ErrInvalidState))
		a.ResetToPreviousTimeLevel()
		_, err = a.Residual()
		assert.NoError(t, err)
	}
	{ // Callbacks every problem must provide
		var bp BaseProblem
		defer func() {
			r := recover()
			require.NotNil(t, r)
			assert.True(t, errors.Is(r.(error), ErrNotImplemented))
		}()
		bp.Porosity(grid.Vertex{})
	}
}

func TestBaseProblemDefaults(t *testing.T) {
	var (
		bp = BaseProblem{}
		q  = []float64{1, 1}
	)
	bp.Source(q, grid.Vertex{})
	assert.Equal(t, []float64{0, 0}, q)
	assert.Equal(t, [2]float64{}, bp.Gravity())
	bp.EnableGravity = true
	assert.Equal(t, [2]float64{0, -9.81}, bp.Gravity())
	assert.NotNil(t, bp.MaterialLaw(grid.Vertex{}))
	assert.Panics(t, func() { bp.Temperature(grid.Vertex{}) })
	assert.Panics(t, func() { bp.IntrinsicPermeability(grid.Vertex{}) })
	assert.Panics(t, func() { bp.Tortuosity(grid.Vertex{}) })
	assert.Panics(t, func() { bp.Dirichlet(nil, grid.Vertex{}) })
}
