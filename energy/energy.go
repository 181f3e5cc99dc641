package energy

import (
	"fmt"

	"github.com/notargets/goporous/fluidstate"
	"github.com/notargets/goporous/fluidsystem"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/types"
	"github.com/notargets/goporous/utils"
)

// TemperatureProblem gives the temperature of isothermal simulations
type TemperatureProblem interface {
	Temperature(v grid.Vertex) float64
}

// SolidProblem gives the rock parameters of non-isothermal simulations
type SolidProblem interface {
	HeatCapacitySolid(v grid.Vertex) float64 // [J/(kg K)]
	DensitySolid(v grid.Vertex) float64
	ThermalConductivitySolid(v grid.Vertex) float64
}

// Variables are the energy related secondary variables of one control volume
type Variables struct {
	HeatCapacitySolid   float64
	DensitySolid        float64
	ThermalConductivity float64 // Effective conductivity of fluids and solid
	Temperature         float64
}

// Phase is what the energy flux needs of one phase on one side of a face
type Phase struct {
	Mobility, Density, Enthalpy float64
}

// Module adds an energy balance to a multi phase model, or fixes the
// temperature when the model is isothermal
type Module interface {
	NumEq() int
	UpdateTemperatures(fs *fluidstate.Compositional, pv *types.PrimaryVariables, v grid.Vertex)
	Update(ev *Variables, fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem, v grid.Vertex, porosity float64)
	Storage(result []float64, ev *Variables, fs *fluidstate.Compositional, porosity float64)
	AdvectiveFlux(flux []float64, kmvpNormal, upwindWeight float64, up, dn Phase)
	ConductiveFlux(flux []float64, ei, ej *Variables, gradT, normal [2]float64)
}

// Isothermal sets the temperature given by the problem and has no equation
type Isothermal struct {
	Problem TemperatureProblem
}

func (o Isothermal) NumEq() int { return 0 }

func (o Isothermal) UpdateTemperatures(fs *fluidstate.Compositional, pv *types.PrimaryVariables, v grid.Vertex) {
	fs.SetTemperature(o.Problem.Temperature(v))
}

func (o Isothermal) Update(ev *Variables, fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem, v grid.Vertex, porosity float64) {
	ev.Temperature = fs.Temperature[0]
}

func (o Isothermal) Storage(result []float64, ev *Variables, fs *fluidstate.Compositional, porosity float64) {}

func (o Isothermal) AdvectiveFlux(flux []float64, kmvpNormal, upwindWeight float64, up, dn Phase) {}

func (o Isothermal) ConductiveFlux(flux []float64, ei, ej *Variables, gradT, normal [2]float64) {}

// MultiPhase is the energy balance of all fluid phases and the rock in local
// thermal equilibrium. The temperature is the primary variable TemperatureIdx
// and the balance is equation EqIdx.
type MultiPhase struct {
	Problem        SolidProblem
	TemperatureIdx int
	EqIdx          int
}

func NewMultiPhase(problem SolidProblem, temperatureIdx, eqIdx int) *MultiPhase {
	if problem == nil {
		panic(fmt.Errorf("energy balance needs a problem with solid parameters"))
	}
	return &MultiPhase{Problem: problem, TemperatureIdx: temperatureIdx, EqIdx: eqIdx}
}

func (o *MultiPhase) NumEq() int { return 1 }

func (o *MultiPhase) UpdateTemperatures(fs *fluidstate.Compositional, pv *types.PrimaryVariables, v grid.Vertex) {
	fs.SetTemperature(pv.Values[o.TemperatureIdx])
}

// Update computes the effective conductivity as the porosity and saturation
// weighted mean of the phase and rock conductivities
func (o *MultiPhase) Update(ev *Variables, fs *fluidstate.Compositional, fsys fluidsystem.FluidSystem, v grid.Vertex, porosity float64) {
	ev.Temperature = fs.Temperature[0]
	ev.HeatCapacitySolid = o.Problem.HeatCapacitySolid(v)
	ev.DensitySolid = o.Problem.DensitySolid(v)
	lambda := (1 - porosity) * o.Problem.ThermalConductivitySolid(v)
	for p := 0; p < fs.NumPhases; p++ {
		lambda += porosity * fs.Saturation[p] * fsys.ThermalConductivity(fs, p)
	}
	ev.ThermalConductivity = lambda
}

// Storage is sum_p phi S_p rho_p u_p + (1 - phi) rho_s c_s T
func (o *MultiPhase) Storage(result []float64, ev *Variables, fs *fluidstate.Compositional, porosity float64) {
	var e float64
	for p := 0; p < fs.NumPhases; p++ {
		e += porosity * fs.Saturation[p] * fs.Density[p] * fs.InternalEnergy(p)
	}
	e += (1 - porosity) * ev.DensitySolid * ev.HeatCapacitySolid * ev.Temperature
	result[o.EqIdx] = e
}

// AdvectiveFlux adds the enthalpy carried by one phase
func (o *MultiPhase) AdvectiveFlux(flux []float64, kmvpNormal, upwindWeight float64, up, dn Phase) {
	w := upwindWeight
	flux[o.EqIdx] += kmvpNormal *
		(w*up.Mobility*up.Density*up.Enthalpy + (1-w)*dn.Mobility*dn.Density*dn.Enthalpy)
}

// ConductiveFlux adds Fourier conduction with the harmonic mean conductivity
func (o *MultiPhase) ConductiveFlux(flux []float64, ei, ej *Variables, gradT, normal [2]float64) {
	lambda := utils.HarmonicMean(ei.ThermalConductivity, ej.ThermalConductivity)
	flux[o.EqIdx] -= lambda * utils.Dot2(gradT, normal)
}
