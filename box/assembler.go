package box

import (
	"fmt"
	"strings"

	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Assembler evaluates the global residual and Jacobian of a box model over a
// grid. Volume variables are computed per vertex in one parallel pass, then
// elements are evaluated in parallel, each shard into its own buffer.
type Assembler[V any] struct {
	Grid             *grid.Rect2D
	Model            Model[V]
	Partitions       *utils.PartitionMap // Elements
	VertexPartitions *utils.PartitionMap
	Solution         []types.PrimaryVariables
	PrevSolution     []types.PrimaryVariables
	VolVars          []V
	PrevVolVars      []V
	BCTypes          []types.BoundaryTypes
	DirichletValues  [][]float64 // Nil for vertices without Dirichlet equations
	Dt               float64
	Formula          fd.Formula // Numeric difference scheme of the Jacobian
	numEq            int
	locals           []*LocalResidual[V]
	buffers          [][]float64
}

func NewAssembler[V any](g *grid.Rect2D, m Model[V], ProcLimit int) (a *Assembler[V]) {
	var (
		nv  = g.NumVertices()
		neq = m.NumEq()
	)
	a = &Assembler[V]{
		Grid:             g,
		Model:            m,
		Partitions:       utils.NewPartitionMap(utils.ParallelDegree(ProcLimit, g.NumElements()), g.NumElements()),
		VertexPartitions: utils.NewPartitionMap(utils.ParallelDegree(ProcLimit, nv), nv),
		Solution:         make([]types.PrimaryVariables, nv),
		PrevSolution:     make([]types.PrimaryVariables, nv),
		VolVars:          make([]V, nv),
		PrevVolVars:      make([]V, nv),
		BCTypes:          make([]types.BoundaryTypes, nv),
		DirichletValues:  make([][]float64, nv),
		Dt:               1,
		Formula:          fd.Forward,
		numEq:            neq,
	}
	for _, v := range g.Vertices {
		a.BCTypes[v.Idx] = types.NewBoundaryTypes(neq)
		if !v.OnBoundary() {
			continue
		}
		m.Problem().BoundaryTypes(&a.BCTypes[v.Idx], v)
		if a.BCTypes[v.Idx].HasDirichlet() {
			a.DirichletValues[v.Idx] = make([]float64, neq)
			m.Problem().Dirichlet(a.DirichletValues[v.Idx], v)
		}
	}
	a.locals = make([]*LocalResidual[V], a.Partitions.ParallelDegree)
	a.buffers = make([][]float64, a.Partitions.ParallelDegree)
	for np := range a.locals {
		a.locals[np] = NewLocalResidual[V](m)
		a.buffers[np] = make([]float64, nv*neq)
	}
	return
}

// ParseFormula maps a difference scheme name to its gonum formula
func ParseFormula(name string) (f fd.Formula, err error) {
	switch strings.ToLower(name) {
	case "", "forward":
		f = fd.Forward
	case "backward":
		f = fd.Backward
	case "central":
		f = fd.Central
	default:
		err = fmt.Errorf("unknown numeric difference method %q", name)
	}
	return
}

func (a *Assembler[V]) NumEq() int       { return a.numEq }
func (a *Assembler[V]) NumUnknowns() int { return a.numEq * a.Grid.NumVertices() }

// SetInitialSolution sets both time levels from initial and computes their
// volume variables
func (a *Assembler[V]) SetInitialSolution(initial func(v grid.Vertex) types.PrimaryVariables) (err error) {
	for _, v := range a.Grid.Vertices {
		pv := initial(v)
		if len(pv.Values) != a.numEq {
			panic(fmt.Errorf("initial solution at vertex %d has %d values, need %d",
				v.Idx, len(pv.Values), a.numEq))
		}
		a.Solution[v.Idx] = pv.Copy()
		a.PrevSolution[v.Idx] = pv.Copy()
	}
	if err = a.updateVolumeVariables(a.PrevSolution, a.PrevVolVars); err != nil {
		return
	}
	return a.UpdateVolumeVariables()
}

// UpdateVolumeVariables recomputes the current volume variables from the
// current solution
func (a *Assembler[V]) UpdateVolumeVariables() (err error) {
	return a.updateVolumeVariables(a.Solution, a.VolVars)
}

func (a *Assembler[V]) updateVolumeVariables(sol []types.PrimaryVariables, vv []V) (err error) {
	return a.VertexPartitions.ParallelFor(func(np, kMin, kMax int) error {
		for v := kMin; v < kMax; v++ {
			if e := a.Model.UpdateVolumeVariables(&vv[v], &sol[v], a.Grid.Vertices[v]); e != nil {
				return &EvaluationError{VertexIdx: v, ElemIdx: -1, Err: e}
			}
		}
		return nil
	})
}

func (a *Assembler[V]) buildContext(ctx *ElementContext[V], k int) {
	eg := a.Grid.Geometry(k)
	ctx.Geometry = eg
	for i, v := range eg.Vertices {
		ctx.Vertices[i] = a.Grid.Vertices[v]
		ctx.PrimaryVars[i] = &a.Solution[v]
		ctx.VolVars[i] = &a.VolVars[v]
		ctx.PrevVolVars[i] = &a.PrevVolVars[v]
		ctx.BoundaryTypes[i] = &a.BCTypes[v]
	}
	ctx.Dt = a.Dt
}

func (a *Assembler[V]) isDirichlet(v, eq int) bool {
	return a.DirichletValues[v] != nil && a.BCTypes[v].IsDirichlet(eq)
}

// Residual evaluates the global residual at the current solution, indexed
// by vertex*NumEq + eq
func (a *Assembler[V]) Residual() (r []float64, err error) {
	if err = a.UpdateVolumeVariables(); err != nil {
		return
	}
	if err = a.Partitions.ParallelFor(func(np, kMin, kMax int) (err error) {
		var (
			lr  = a.locals[np]
			buf = a.buffers[np]
			ctx ElementContext[V]
		)
		for i := range buf {
			buf[i] = 0
		}
		for k := kMin; k < kMax; k++ {
			a.buildContext(&ctx, k)
			if err = lr.Eval(&ctx); err != nil {
				return
			}
			a.scatterResidual(buf, ctx.Geometry, lr.Residual)
		}
		return
	}); err != nil {
		return
	}
	r = a.gatherResidual()
	return
}

func (a *Assembler[V]) scatterResidual(buf []float64, eg *grid.ElementGeometry, res [][]float64) {
	for i, v := range eg.Vertices {
		for eq := 0; eq < a.numEq; eq++ {
			if !a.isDirichlet(v, eq) {
				buf[v*a.numEq+eq] += res[i][eq]
			}
		}
	}
}

func (a *Assembler[V]) gatherResidual() (r []float64) {
	r = make([]float64, a.NumUnknowns())
	for _, buf := range a.buffers {
		floats.Add(r, buf)
	}
	for v, vals := range a.DirichletValues {
		if vals == nil {
			continue
		}
		for eq := 0; eq < a.numEq; eq++ {
			if a.BCTypes[v].IsDirichlet(eq) {
				r[v*a.numEq+eq] = a.Solution[v].Values[eq] - vals[eq]
			}
		}
	}
	return
}

type entry struct {
	i, j int
	v    float64
}

// Assemble evaluates the residual and its Jacobian at the current solution.
// Element Jacobians are obtained by numeric differentiation of the local
// residual with respect to relatively scaled primary variables.
func (a *Assembler[V]) Assemble() (J utils.DOK, r []float64, err error) {
	if err = a.UpdateVolumeVariables(); err != nil {
		return
	}
	var (
		entries = make([][]entry, a.Partitions.ParallelDegree)
	)
	if err = a.Partitions.ParallelFor(func(np, kMin, kMax int) (err error) {
		var (
			lr  = a.locals[np]
			buf = a.buffers[np]
			n   = 4 * a.numEq
			jac = mat.NewDense(n, n, nil)
			ctx ElementContext[V]
		)
		for i := range buf {
			buf[i] = 0
		}
		entries[np] = make([]entry, 0, n*n*a.Partitions.GetBucketDimension(np))
		for k := kMin; k < kMax; k++ {
			a.buildContext(&ctx, k)
			if err = lr.Eval(&ctx); err != nil {
				return
			}
			a.scatterResidual(buf, ctx.Geometry, lr.Residual)
			if err = a.elementJacobian(jac, lr, &ctx); err != nil {
				return
			}
			entries[np] = a.appendJacobian(entries[np], ctx.Geometry, jac)
		}
		return
	}); err != nil {
		return
	}
	r = a.gatherResidual()
	nu := a.NumUnknowns()
	J = utils.NewDOK(nu, nu)
	for _, ee := range entries {
		for _, e := range ee {
			J.Add(e.i, e.j, e.v)
		}
	}
	for v, vals := range a.DirichletValues {
		if vals == nil {
			continue
		}
		for eq := 0; eq < a.numEq; eq++ {
			if a.BCTypes[v].IsDirichlet(eq) {
				J.Set(v*a.numEq+eq, v*a.numEq+eq, 1)
			}
		}
	}
	return
}

func (a *Assembler[V]) appendJacobian(ee []entry, eg *grid.ElementGeometry, jac *mat.Dense) []entry {
	neq := a.numEq
	for i, vi := range eg.Vertices {
		for eq := 0; eq < neq; eq++ {
			if a.isDirichlet(vi, eq) {
				continue
			}
			for j, vj := range eg.Vertices {
				for pv := 0; pv < neq; pv++ {
					if val := jac.At(i*neq+eq, j*neq+pv); val != 0 {
						ee = append(ee, entry{vi*neq + eq, vj*neq + pv, val})
					}
				}
			}
		}
	}
	return ee
}

// elementJacobian fills jac with the derivatives of the local residual,
// which must hold the unperturbed evaluation of ctx on entry
func (a *Assembler[V]) elementJacobian(jac *mat.Dense, lr *LocalResidual[V], ctx *ElementContext[V]) (err error) {
	var (
		neq    = a.numEq
		n      = 4 * neq
		scale  = make([]float64, n)
		xs0    = make([]float64, n)
		origin = make([]float64, n)
		lctx   = *ctx
		pvs    [4]types.PrimaryVariables
		vvs    [4]V
	)
	flatten := func(y []float64) {
		for i := 0; i < 4; i++ {
			copy(y[i*neq:(i+1)*neq], lr.Residual[i])
		}
	}
	flatten(origin)
	for i := 0; i < 4; i++ {
		pvs[i] = ctx.PrimaryVars[i].Copy()
		for eq := 0; eq < neq; eq++ {
			x := ctx.PrimaryVars[i].Values[eq]
			if x < 0 {
				scale[i*neq+eq] = 1 - x
			} else {
				scale[i*neq+eq] = 1 + x
			}
			xs0[i*neq+eq] = x / scale[i*neq+eq]
		}
	}
	f := func(y, xs []float64) {
		if err != nil {
			return
		}
		for i := 0; i < 4; i++ {
			lctx.PrimaryVars[i] = ctx.PrimaryVars[i]
			lctx.VolVars[i] = ctx.VolVars[i]
			perturbed := false
			for eq := 0; eq < neq; eq++ {
				if xs[i*neq+eq] != xs0[i*neq+eq] {
					perturbed = true
				}
			}
			if !perturbed {
				continue
			}
			for eq := 0; eq < neq; eq++ {
				pvs[i].Values[eq] = xs[i*neq+eq] * scale[i*neq+eq]
			}
			if e := a.Model.UpdateVolumeVariables(&vvs[i], &pvs[i], ctx.Vertices[i]); e != nil {
				err = &EvaluationError{VertexIdx: ctx.Vertices[i].Idx, ElemIdx: -1, Err: e}
				return
			}
			lctx.PrimaryVars[i] = &pvs[i]
			lctx.VolVars[i] = &vvs[i]
		}
		if e := lr.Eval(&lctx); e != nil {
			err = e
			return
		}
		flatten(y)
	}
	fd.Jacobian(jac, f, xs0, &fd.JacobianSettings{
		Formula:     a.Formula,
		OriginValue: origin,
	})
	if err != nil {
		return
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			jac.Set(i, j, jac.At(i, j)/scale[j])
		}
	}
	return
}

// StorageTotals integrates the storage term of every equation over the
// domain at the current solution
func (a *Assembler[V]) StorageTotals() (totals []float64, err error) {
	if err = a.UpdateVolumeVariables(); err != nil {
		return
	}
	var (
		ctx    ElementContext[V]
		values = make([]float64, a.numEq)
	)
	totals = make([]float64, a.numEq)
	for k := 0; k < a.Grid.NumElements(); k++ {
		a.buildContext(&ctx, k)
		for i, scv := range ctx.Geometry.Scv {
			a.Model.ComputeStorage(values, &ctx, i, false)
			floats.AddScaled(totals, scv.Volume, values)
		}
	}
	return
}

// Unknowns returns a flat copy of the current solution
func (a *Assembler[V]) Unknowns() (x []float64) {
	x = make([]float64, a.NumUnknowns())
	for v := range a.Solution {
		copy(x[v*a.numEq:], a.Solution[v].Values)
	}
	return
}

func (a *Assembler[V]) SetUnknowns(x []float64) {
	for v := range a.Solution {
		copy(a.Solution[v].Values, x[v*a.numEq:(v+1)*a.numEq])
	}
}

// SwitchPrimaryVariables lets a switching model change the meaning of the
// unknowns of every vertex whose switching slots are not fixed by Dirichlet
// conditions. The volume variables must be those of the current solution.
func (a *Assembler[V]) SwitchPrimaryVariables() (switched int) {
	sw, ok := a.Model.(PrimaryVariableSwitcher[V])
	if !ok {
		return
	}
	for v := range a.Solution {
		if a.fixedSwitch(sw, v) {
			continue
		}
		if sw.SwitchPrimaryVariables(&a.Solution[v], &a.VolVars[v], a.Grid.Vertices[v]) {
			switched++
		}
	}
	return
}

func (a *Assembler[V]) fixedSwitch(sw PrimaryVariableSwitcher[V], v int) bool {
	for eq := 0; eq < a.numEq; eq++ {
		if a.BCTypes[v].IsDirichlet(eq) && sw.IsSwitchingSlot(eq) {
			return true
		}
	}
	return false
}

func (a *Assembler[V]) SetTimeStep(dt float64) { a.Dt = dt }
func (a *Assembler[V]) TimeStep() float64      { return a.Dt }

// AdvanceTimeLevel makes the current solution the previous time level
func (a *Assembler[V]) AdvanceTimeLevel() (err error) {
	for v := range a.Solution {
		a.PrevSolution[v] = a.Solution[v].Copy()
	}
	if err = a.updateVolumeVariables(a.PrevSolution, a.PrevVolVars); err != nil {
		return
	}
	return a.UpdateVolumeVariables()
}

// ResetToPreviousTimeLevel discards the current solution
func (a *Assembler[V]) ResetToPreviousTimeLevel() {
	for v := range a.Solution {
		a.Solution[v] = a.PrevSolution[v].Copy()
	}
}
