package materiallaw

import (
	"fmt"
	"math"
)

// BrooksCorey with linear extensions of pc below SweLow and above one
type BrooksCorey struct {
	Pe     float64 // entry pressure [Pa]
	Lambda float64 // pore size distribution index
	SweLow float64
}

func init() {
	effAllocators["brookscorey"] = func() Effective { return new(BrooksCorey) }
}

func (o *BrooksCorey) Init(prms Prms) (err error) {
	o.SweLow = 0.01
	for _, p := range prms {
		switch p.N {
		case "pe":
			o.Pe = p.V
		case "lambda":
			o.Lambda = p.V
		case "swelow":
			o.SweLow = p.V
		default:
			return fmt.Errorf("brookscorey: parameter named %q is incorrect", p.N)
		}
	}
	if o.Pe <= 0 || o.Lambda <= 0 {
		err = fmt.Errorf("brookscorey: pe and lambda must be positive, got %g and %g", o.Pe, o.Lambda)
	}
	return
}

func (o BrooksCorey) GetPrms(example bool) Prms {
	if example {
		return Prms{
			&Prm{N: "pe", V: 500},
			&Prm{N: "lambda", V: 2},
		}
	}
	return Prms{
		&Prm{N: "pe", V: o.Pe},
		&Prm{N: "lambda", V: o.Lambda},
		&Prm{N: "swelow", V: o.SweLow},
	}
}

func (o BrooksCorey) pc(Swe float64) float64 {
	return o.Pe * math.Pow(Swe, -1/o.Lambda)
}

func (o BrooksCorey) dpcdSwe(Swe float64) float64 {
	return -o.Pe / o.Lambda * math.Pow(Swe, -1/o.Lambda-1)
}

func (o BrooksCorey) Pcnw(Swe float64) float64 {
	switch {
	case Swe < o.SweLow:
		return o.pc(o.SweLow) + o.dpcdSwe(o.SweLow)*(Swe-o.SweLow)
	case Swe > 1:
		return o.Pe + o.dpcdSwe(1)*(Swe-1)
	}
	return o.pc(Swe)
}

func (o BrooksCorey) Krw(Swe float64) float64 {
	Swe = clamp(Swe, 0, 1)
	return math.Pow(Swe, (2+3*o.Lambda)/o.Lambda)
}

func (o BrooksCorey) Krn(Swe float64) float64 {
	Swe = clamp(Swe, 0, 1)
	return (1 - Swe) * (1 - Swe) * (1 - math.Pow(Swe, (2+o.Lambda)/o.Lambda))
}
