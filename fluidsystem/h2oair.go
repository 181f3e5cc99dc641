package fluidsystem

import (
	"math"

	"github.com/notargets/goporous/fluidstate"
)

const (
	LiquidPhaseIdx = 0
	GasPhaseIdx    = 1
	H2OIdx         = 0
	AirIdx         = 1
)

// H2OAir is a liquid and a gas phase of water and air forming ideal
// mixtures: Raoult's law for water, Henry's law for air dissolved in the
// liquid, ideal gas in the gas phase.
type H2OAir struct {
	Liquid          LinearDensity
	LiquidViscosity float64 // [Pa s]
	GasViscosity    float64
	LiquidDiffusion float64 // [m^2/s]
	GasDiffusion    float64 // at T0 and 1 bar
	Conductivity    [2]float64
}

func init() {
	allocators["h2o-air"] = func() FluidSystem { return NewH2OAir() }
}

func NewH2OAir() *H2OAir {
	return &H2OAir{
		Liquid:          Water,
		LiquidViscosity: 1.e-3,
		GasViscosity:    1.8e-5,
		LiquidDiffusion: 2.e-9,
		GasDiffusion:    2.13e-5,
		Conductivity:    [2]float64{0.6, 0.026},
	}
}

func (o *H2OAir) Name() string              { return "h2o-air" }
func (o *H2OAir) NumPhases() int            { return 2 }
func (o *H2OAir) NumComponents() int        { return 2 }
func (o *H2OAir) IsLiquid(p int) bool       { return p == LiquidPhaseIdx }
func (o *H2OAir) IsIdealMixture(p int) bool { return true }

func (o *H2OAir) PhaseName(p int) string {
	return [2]string{"liquid", "gas"}[p]
}

func (o *H2OAir) ComponentName(c int) string {
	return [2]string{H2O.Name, Air.Name}[c]
}

func (o *H2OAir) MolarMass(c int) float64 {
	return [2]float64{H2O.MolarMass, Air.MolarMass}[c]
}

func (o *H2OAir) MolarMasses() []float64 {
	return []float64{H2O.MolarMass, Air.MolarMass}
}

func (o *H2OAir) Density(fs *fluidstate.Compositional, p int) float64 {
	if p == LiquidPhaseIdx {
		return o.Liquid.Calc(fs.Pressure[p])
	}
	return fs.Pressure[p] * fs.AverageMolarMass(p) / (GasConstant * fs.Temperature[p])
}

func (o *H2OAir) Viscosity(fs *fluidstate.Compositional, p int) float64 {
	if p == LiquidPhaseIdx {
		return o.LiquidViscosity
	}
	return o.GasViscosity
}

func (o *H2OAir) Enthalpy(fs *fluidstate.Compositional, p int) (h float64) {
	dT := fs.Temperature[p] - T0
	if p == LiquidPhaseIdx {
		return H2O.CpLiquid * dT
	}
	var (
		Xw = fs.MassFraction(p, H2OIdx)
		Xa = fs.MassFraction(p, AirIdx)
	)
	h = Xw*(H2O.CpGas*dT+WaterVaporizationHeat) + Xa*Air.CpGas*dT
	return
}

func (o *H2OAir) FugacityCoefficient(fs *fluidstate.Compositional, p, c int) float64 {
	if p == GasPhaseIdx {
		return 1
	}
	var (
		T  = fs.Temperature[p]
		pl = fs.Pressure[p]
	)
	if c == H2OIdx {
		return VaporPressureH2O(T) / pl
	}
	return HenryAirInWater(T) / pl
}

func (o *H2OAir) BinaryDiffusionCoefficient(fs *fluidstate.Compositional, p, c1, c2 int) float64 {
	if p == LiquidPhaseIdx {
		return o.LiquidDiffusion
	}
	return o.GasDiffusion * math.Pow(fs.Temperature[p]/T0, 1.81) * 1.e5 / fs.Pressure[p]
}

func (o *H2OAir) ThermalConductivity(fs *fluidstate.Compositional, p int) float64 {
	return o.Conductivity[p]
}
