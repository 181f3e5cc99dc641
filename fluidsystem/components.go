package fluidsystem

import (
	"math"
)

type Component struct {
	Name      string
	MolarMass float64 // [kg/mol]
	CpLiquid  float64 // [J/(kg K)]
	CpGas     float64 // [J/(kg K)]
}

var (
	H2O = Component{Name: "H2O", MolarMass: 18.0153e-3, CpLiquid: 4180, CpGas: 1900}
	Air = Component{Name: "Air", MolarMass: 28.9644e-3, CpLiquid: 1005, CpGas: 1005}
	N2  = Component{Name: "N2", MolarMass: 28.0134e-3, CpLiquid: 1040, CpGas: 1040}
)

// Latent heat of vaporization of water [J/kg]
const WaterVaporizationHeat = 2.453e6

// VaporPressureH2O is the saturation vapor pressure of water [Pa] from the
// Antoine equation, valid between 1 and 100 C.
func VaporPressureH2O(T float64) float64 {
	var (
		Tc     = T - T0
		log10P = 8.07131 - 1730.63/(233.426+Tc) // mmHg
	)
	return math.Pow(10, log10P) * 133.322368
}

// HenryAirInWater is the Henry coefficient of air dissolved in water [Pa]
func HenryAirInWater(T float64) float64 {
	return 1. / ((0.8942 + 1.47*math.Exp(-0.04394*(T-T0))) * 1.e-10)
}

// LinearDensity models a slightly compressible fluid
//
//	R(p) = R0 + C・(p - p0)
type LinearDensity struct {
	R0 float64 // density at P0 [kg/m^3]
	P0 float64 // reference pressure [Pa]
	C  float64 // compressibility coefficient [kg/(m^3 Pa)]
}

func (o LinearDensity) Calc(p float64) float64 {
	return o.R0 + o.C*(p-o.P0)
}

var Water = LinearDensity{R0: 1000, P0: 1.e5, C: 4.53e-7}
