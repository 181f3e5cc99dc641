package box

import (
	"errors"
	"fmt"

	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/materiallaw"
	"github.com/notargets/goporous/types"
)

var ErrNotImplemented = errors.New("not implemented")

// Problem supplies the spatial parameters, boundary conditions and sources
// of a simulation. All callbacks take the vertex of the control volume.
type Problem interface {
	BoundaryTypes(bt *types.BoundaryTypes, v grid.Vertex)
	Dirichlet(values []float64, v grid.Vertex)
	// Neumann returns the flux per unit area leaving the domain through bf
	Neumann(values []float64, v grid.Vertex, bf *grid.BoundaryFace)
	// Source returns the volumetric source rate, positive into the domain
	Source(q []float64, v grid.Vertex)
	Porosity(v grid.Vertex) float64
	IntrinsicPermeability(v grid.Vertex) [2][2]float64
	Temperature(v grid.Vertex) float64
	Tortuosity(v grid.Vertex) float64
	MaterialLaw(v grid.Vertex) materiallaw.Law
	Gravity() [2]float64
}

// BaseProblem gives defaults for the optional callbacks of Problem and
// panics on the ones every concrete problem has to provide. Embed it and
// override what the problem defines.
type BaseProblem struct {
	EnableGravity bool
}

func notImplemented(name string) error {
	return fmt.Errorf("%w: problem does not provide %s()", ErrNotImplemented, name)
}

func (BaseProblem) BoundaryTypes(bt *types.BoundaryTypes, v grid.Vertex) {
	panic(notImplemented("BoundaryTypes"))
}

func (BaseProblem) Dirichlet(values []float64, v grid.Vertex) {
	panic(notImplemented("Dirichlet"))
}

func (BaseProblem) Neumann(values []float64, v grid.Vertex, bf *grid.BoundaryFace) {
	for i := range values {
		values[i] = 0
	}
}

func (BaseProblem) Source(q []float64, v grid.Vertex) {
	for i := range q {
		q[i] = 0
	}
}

func (BaseProblem) Porosity(v grid.Vertex) float64 {
	panic(notImplemented("Porosity"))
}

func (BaseProblem) IntrinsicPermeability(v grid.Vertex) [2][2]float64 {
	panic(notImplemented("IntrinsicPermeability"))
}

func (BaseProblem) Temperature(v grid.Vertex) float64 {
	panic(notImplemented("Temperature"))
}

func (BaseProblem) Tortuosity(v grid.Vertex) float64 {
	panic(notImplemented("Tortuosity"))
}

func (BaseProblem) HeatCapacitySolid(v grid.Vertex) float64 {
	panic(notImplemented("HeatCapacitySolid"))
}

func (BaseProblem) DensitySolid(v grid.Vertex) float64 {
	panic(notImplemented("DensitySolid"))
}

func (BaseProblem) ThermalConductivitySolid(v grid.Vertex) float64 {
	panic(notImplemented("ThermalConductivitySolid"))
}

func (BaseProblem) MaterialLaw(v grid.Vertex) materiallaw.Law {
	return nullLaw
}

var nullLaw = &materiallaw.Null{}

// Gravity points in -y when enabled
func (bp BaseProblem) Gravity() [2]float64 {
	if bp.EnableGravity {
		return [2]float64{0, -9.81}
	}
	return [2]float64{}
}
