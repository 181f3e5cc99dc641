package fluidsystem

import (
	"github.com/notargets/goporous/fluidstate"
)

// LiquidTracer is a single liquid phase of water carrying a dissolved tracer
type LiquidTracer struct {
	Liquid       LinearDensity
	Tracer       Component
	Mu           float64
	Diffusion    float64
	Conductivity float64
}

func init() {
	allocators["h2o-tracer"] = func() FluidSystem { return NewLiquidTracer() }
}

func NewLiquidTracer() *LiquidTracer {
	return &LiquidTracer{
		Liquid:       Water,
		Tracer:       N2,
		Mu:           1.e-3,
		Diffusion:    2.e-9,
		Conductivity: 0.6,
	}
}

func (o *LiquidTracer) Name() string              { return "h2o-tracer" }
func (o *LiquidTracer) NumPhases() int            { return 1 }
func (o *LiquidTracer) NumComponents() int        { return 2 }
func (o *LiquidTracer) IsLiquid(p int) bool       { return true }
func (o *LiquidTracer) IsIdealMixture(p int) bool { return true }
func (o *LiquidTracer) PhaseName(p int) string    { return "liquid" }

func (o *LiquidTracer) ComponentName(c int) string {
	if c == 0 {
		return H2O.Name
	}
	return o.Tracer.Name
}

func (o *LiquidTracer) MolarMass(c int) float64 {
	if c == 0 {
		return H2O.MolarMass
	}
	return o.Tracer.MolarMass
}

func (o *LiquidTracer) MolarMasses() []float64 {
	return []float64{H2O.MolarMass, o.Tracer.MolarMass}
}

func (o *LiquidTracer) Density(fs *fluidstate.Compositional, p int) float64 {
	return o.Liquid.Calc(fs.Pressure[p])
}

func (o *LiquidTracer) Viscosity(fs *fluidstate.Compositional, p int) float64 {
	return o.Mu
}

func (o *LiquidTracer) Enthalpy(fs *fluidstate.Compositional, p int) float64 {
	return H2O.CpLiquid * (fs.Temperature[p] - T0)
}

func (o *LiquidTracer) FugacityCoefficient(fs *fluidstate.Compositional, p, c int) float64 {
	return 1
}

func (o *LiquidTracer) BinaryDiffusionCoefficient(fs *fluidstate.Compositional, p, c1, c2 int) float64 {
	return o.Diffusion
}

func (o *LiquidTracer) ThermalConductivity(fs *fluidstate.Compositional, p int) float64 {
	return o.Conductivity
}
