package pvs

import (
	"github.com/notargets/goporous/energy"
	"github.com/notargets/goporous/fluidstate"
	"github.com/notargets/goporous/types"
)

// VolumeVariables are the secondary variables of one sub control volume
type VolumeVariables struct {
	FluidState   *fluidstate.Compositional
	Presence     types.PhasePresence
	RelPerm      []float64
	Mobility     []float64 // kr/mu
	Porosity     float64
	Tortuosity   float64
	Permeability [2][2]float64
	DiffCoeff    [][]float64 // [phase][component], against component 0
	Energy       energy.Variables
	pc           []float64
}

func newVolumeVariables(fs *fluidstate.Compositional) (vv VolumeVariables) {
	np, nc := fs.NumPhases, fs.NumComponents
	vv = VolumeVariables{
		FluidState: fs,
		RelPerm:    make([]float64, np),
		Mobility:   make([]float64, np),
		DiffCoeff:  make([][]float64, np),
		pc:         make([]float64, np),
	}
	for p := range vv.DiffCoeff {
		vv.DiffCoeff[p] = make([]float64, nc)
	}
	return
}

// PorousDiffCoeff is the effective diffusion coefficient of component c in
// phase p of the porous medium
func (vv *VolumeVariables) PorousDiffCoeff(p, c int) float64 {
	return vv.Porosity * vv.Tortuosity * vv.FluidState.Saturation[p] * vv.DiffCoeff[p][c]
}
