package materiallaw

import (
	"fmt"

	"github.com/notargets/goporous/fluidstate"
)

// Linear pc between an entry value at Swe = 1 and a maximum at Swe = 0,
// relative permeabilities equal to effective saturations
type Linear struct {
	EntryPc, MaxPc float64
}

func init() {
	effAllocators["linear"] = func() Effective { return new(Linear) }
	allocators["null"] = func() Law { return new(Null) }
}

func (o *Linear) Init(prms Prms) (err error) {
	for _, p := range prms {
		switch p.N {
		case "entrypc":
			o.EntryPc = p.V
		case "maxpc":
			o.MaxPc = p.V
		default:
			return fmt.Errorf("linear: parameter named %q is incorrect", p.N)
		}
	}
	return
}

func (o Linear) GetPrms(example bool) Prms {
	if example {
		return Prms{
			&Prm{N: "entrypc", V: 0},
			&Prm{N: "maxpc", V: 1.e4},
		}
	}
	return Prms{
		&Prm{N: "entrypc", V: o.EntryPc},
		&Prm{N: "maxpc", V: o.MaxPc},
	}
}

func (o Linear) Pcnw(Swe float64) float64 {
	return o.EntryPc + (1-Swe)*(o.MaxPc-o.EntryPc)
}

func (o Linear) Krw(Swe float64) float64 { return clamp(Swe, 0, 1) }
func (o Linear) Krn(Swe float64) float64 { return clamp(1-Swe, 0, 1) }

// Null has no capillarity and relative permeabilities equal to saturations,
// for any number of phases
type Null struct{}

func (o *Null) Init(prms Prms) (err error) {
	if len(prms) != 0 {
		err = fmt.Errorf("null: takes no parameters, got %d", len(prms))
	}
	return
}

func (o *Null) GetPrms(example bool) Prms { return nil }

func (o *Null) CapillaryPressures(pc []float64, fs *fluidstate.Compositional) {
	for p := range pc {
		pc[p] = 0
	}
}

func (o *Null) RelativePermeabilities(kr []float64, fs *fluidstate.Compositional) {
	for p := range kr {
		kr[p] = clamp(fs.Saturation[p], 0, 1)
	}
}
