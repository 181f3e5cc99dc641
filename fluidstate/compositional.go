package fluidstate

import (
	"fmt"
	"math"
)

// Compositional is the thermodynamic state of all phases in one control
// volume. Mass fractions and molar densities are derived from mole fractions
// and the component molar masses.
type Compositional struct {
	NumPhases, NumComponents int
	MolarMass                []float64 // Per component [kg/mol]
	Saturation               []float64
	Pressure                 []float64
	Temperature              []float64
	Density                  []float64 // Mass density [kg/m^3]
	Viscosity                []float64
	Enthalpy                 []float64 // Specific enthalpy [J/kg]
	MoleFrac                 [][]float64
}

func NewCompositional(molarMass []float64, numPhases int) (fs *Compositional) {
	nc := len(molarMass)
	fs = &Compositional{
		NumPhases:     numPhases,
		NumComponents: nc,
		MolarMass:     append([]float64{}, molarMass...),
		Saturation:    make([]float64, numPhases),
		Pressure:      make([]float64, numPhases),
		Temperature:   make([]float64, numPhases),
		Density:       make([]float64, numPhases),
		Viscosity:     make([]float64, numPhases),
		Enthalpy:      make([]float64, numPhases),
		MoleFrac:      make([][]float64, numPhases),
	}
	for p := range fs.MoleFrac {
		fs.MoleFrac[p] = make([]float64, nc)
	}
	return
}

func (fs *Compositional) Copy() (R *Compositional) {
	R = NewCompositional(fs.MolarMass, fs.NumPhases)
	copy(R.Saturation, fs.Saturation)
	copy(R.Pressure, fs.Pressure)
	copy(R.Temperature, fs.Temperature)
	copy(R.Density, fs.Density)
	copy(R.Viscosity, fs.Viscosity)
	copy(R.Enthalpy, fs.Enthalpy)
	for p := range fs.MoleFrac {
		copy(R.MoleFrac[p], fs.MoleFrac[p])
	}
	return
}

func (fs *Compositional) SetTemperature(T float64) {
	for p := range fs.Temperature {
		fs.Temperature[p] = T
	}
}

func (fs *Compositional) SumMoleFractions(p int) (sum float64) {
	for _, x := range fs.MoleFrac[p] {
		sum += x
	}
	return
}

// AverageMolarMass of phase p, sum_c x_pc M_c
func (fs *Compositional) AverageMolarMass(p int) (m float64) {
	for c, x := range fs.MoleFrac[p] {
		m += x * fs.MolarMass[c]
	}
	return
}

func (fs *Compositional) MassFraction(p, c int) float64 {
	return fs.MoleFrac[p][c] * fs.MolarMass[c] / fs.AverageMolarMass(p)
}

func (fs *Compositional) MolarDensity(p int) float64 {
	return fs.Density[p] / fs.AverageMolarMass(p)
}

// InternalEnergy per unit mass of phase p
func (fs *Compositional) InternalEnergy(p int) float64 {
	return fs.Enthalpy[p] - fs.Pressure[p]/fs.Density[p]
}

// Presence is satisfied by types.PhasePresence
type Presence interface {
	IsPresent(p int) bool
}

// CheckInvariants verifies the saturations sum to one and the mole fractions
// of every present phase sum to one, within tol.
func (fs *Compositional) CheckInvariants(presence Presence, tol float64) (err error) {
	var sSum float64
	for p := 0; p < fs.NumPhases; p++ {
		sSum += fs.Saturation[p]
		if !presence.IsPresent(p) {
			continue
		}
		if sum := fs.SumMoleFractions(p); math.Abs(sum-1) > tol {
			err = fmt.Errorf("mole fractions of phase %d sum to %.15g", p, sum)
			return
		}
	}
	if math.Abs(sSum-1) > tol {
		err = fmt.Errorf("saturations sum to %.15g", sSum)
	}
	return
}
