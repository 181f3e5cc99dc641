package box

import (
	"github.com/notargets/goporous/utils"
)

// LocalResidual accumulates the residual of the sub control volumes of one
// element. It is not safe for concurrent use, each worker owns one.
type LocalResidual[V any] struct {
	Model    Model[V]
	Residual [][]float64 // [scv][eq]
	values   []float64
	prev     []float64
}

func NewLocalResidual[V any](m Model[V]) (lr *LocalResidual[V]) {
	var (
		neq = m.NumEq()
	)
	lr = &LocalResidual[V]{
		Model:    m,
		Residual: make([][]float64, 4),
		values:   make([]float64, neq),
		prev:     make([]float64, neq),
	}
	for i := range lr.Residual {
		lr.Residual[i] = make([]float64, neq)
	}
	return
}

func (lr *LocalResidual[V]) Reset() {
	for i := range lr.Residual {
		for eq := range lr.Residual[i] {
			lr.Residual[i][eq] = 0
		}
	}
}

// Eval computes the complete residual of the element: the storage change
// over the time step, fluxes, sources and boundary contributions.
func (lr *LocalResidual[V]) Eval(ctx *ElementContext[V]) (err error) {
	lr.Reset()
	lr.evalStorage(ctx)
	lr.evalFluxes(ctx)
	lr.evalSources(ctx)
	lr.evalBoundary(ctx)
	if utils.IsNan(lr.Residual) {
		err = &EvaluationError{VertexIdx: -1, ElemIdx: ctx.Geometry.ElemIdx, Err: ErrInvalidState}
	}
	return
}

// EvalBoundary computes only the boundary contributions of the element
func (lr *LocalResidual[V]) EvalBoundary(ctx *ElementContext[V]) {
	lr.Reset()
	lr.evalBoundary(ctx)
}

func (lr *LocalResidual[V]) evalStorage(ctx *ElementContext[V]) {
	for i, scv := range ctx.Geometry.Scv {
		lr.Model.ComputeStorage(lr.values, ctx, i, false)
		lr.Model.ComputeStorage(lr.prev, ctx, i, true)
		for eq := range lr.values {
			lr.Residual[i][eq] += (lr.values[eq] - lr.prev[eq]) * scv.Volume / ctx.Dt
		}
	}
}

func (lr *LocalResidual[V]) evalFluxes(ctx *ElementContext[V]) {
	for f, face := range ctx.Geometry.Scvf {
		lr.Model.ComputeFlux(lr.values, ctx, f)
		for eq, flux := range lr.values {
			lr.Residual[face.I][eq] += flux
			lr.Residual[face.J][eq] -= flux
		}
	}
}

func (lr *LocalResidual[V]) evalSources(ctx *ElementContext[V]) {
	for i, scv := range ctx.Geometry.Scv {
		lr.Model.ComputeSource(lr.values, ctx, i)
		for eq, q := range lr.values {
			lr.Residual[i][eq] -= q * scv.Volume
		}
	}
}

func (lr *LocalResidual[V]) evalBoundary(ctx *ElementContext[V]) {
	if ctx.HasNeumann() {
		lr.evalNeumann(ctx)
	}
	if ctx.HasOutflow() {
		lr.evalOutflow(ctx)
	}
	if ctx.HasDirichlet() {
		lr.evalDirichlet(ctx)
	}
}

func (lr *LocalResidual[V]) evalNeumann(ctx *ElementContext[V]) {
	problem := lr.Model.Problem()
	for b := range ctx.Geometry.Boundary {
		bf := &ctx.Geometry.Boundary[b]
		bt := ctx.BoundaryTypes[bf.ScvIdx]
		if !bt.HasNeumann() {
			continue
		}
		problem.Neumann(lr.values, ctx.Vertices[bf.ScvIdx], bf)
		for eq, flux := range lr.values {
			if bt.IsNeumann(eq) {
				lr.Residual[bf.ScvIdx][eq] += flux * bf.Area
			}
		}
	}
}

func (lr *LocalResidual[V]) evalOutflow(ctx *ElementContext[V]) {
	for b := range ctx.Geometry.Boundary {
		bf := &ctx.Geometry.Boundary[b]
		bt := ctx.BoundaryTypes[bf.ScvIdx]
		if !bt.HasOutflow() {
			continue
		}
		lr.Model.ComputeOutflowValues(lr.values, ctx, b)
		for eq, flux := range lr.values {
			if bt.IsOutflow(eq) {
				lr.Residual[bf.ScvIdx][eq] += flux
			}
		}
	}
}

// evalDirichlet replaces the equations with prescribed values by the
// deviation of the primary variable from that value
func (lr *LocalResidual[V]) evalDirichlet(ctx *ElementContext[V]) {
	problem := lr.Model.Problem()
	for i, bt := range ctx.BoundaryTypes {
		if !bt.HasDirichlet() {
			continue
		}
		problem.Dirichlet(lr.values, ctx.Vertices[i])
		for eq, val := range lr.values {
			if bt.IsDirichlet(eq) {
				lr.Residual[i][eq] = ctx.PrimaryVars[i].Values[eq] - val
			}
		}
	}
}
