package fluidsystem

import (
	"fmt"
	"sort"

	"github.com/notargets/goporous/fluidstate"
)

const (
	GasConstant = 8.314462618 // [J/(mol K)]
	T0          = 273.15      // Enthalpy reference temperature [K]
)

// FluidSystem supplies the thermodynamic relations of a set of phases and
// components. All state dependent quantities are evaluated from a fluid state.
type FluidSystem interface {
	Name() string
	NumPhases() int
	NumComponents() int
	PhaseName(p int) string
	ComponentName(c int) string
	IsLiquid(p int) bool
	// IsIdealMixture is true when the fugacity coefficients of phase p do not
	// depend on its composition
	IsIdealMixture(p int) bool
	MolarMass(c int) float64
	MolarMasses() []float64
	Density(fs *fluidstate.Compositional, p int) float64
	Viscosity(fs *fluidstate.Compositional, p int) float64
	Enthalpy(fs *fluidstate.Compositional, p int) float64
	FugacityCoefficient(fs *fluidstate.Compositional, p, c int) float64
	BinaryDiffusionCoefficient(fs *fluidstate.Compositional, p, c1, c2 int) float64
	ThermalConductivity(fs *fluidstate.Compositional, p int) float64
}

// New returns a fluid system with default parameters by name
func New(name string) (fsys FluidSystem, err error) {
	allocator, ok := allocators[name]
	if !ok {
		err = fmt.Errorf("fluid system %q is not available, choose from %v", name, Names())
		return
	}
	fsys = allocator()
	return
}

func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available fluid systems
var allocators = map[string]func() FluidSystem{}

// NewFluidState allocates a fluid state sized for fsys
func NewFluidState(fsys FluidSystem) *fluidstate.Compositional {
	return fluidstate.NewCompositional(fsys.MolarMasses(), fsys.NumPhases())
}
