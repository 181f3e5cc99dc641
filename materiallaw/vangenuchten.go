package materiallaw

import (
	"fmt"
	"math"
)

// VanGenuchten with m = 1 - 1/n and a linear pc extension below SweLow
type VanGenuchten struct {
	Alpha  float64 // [1/Pa]
	N      float64
	M      float64
	SweLow float64
}

func init() {
	effAllocators["vangenuchten"] = func() Effective { return new(VanGenuchten) }
}

func (o *VanGenuchten) Init(prms Prms) (err error) {
	o.SweLow = 0.01
	for _, p := range prms {
		switch p.N {
		case "alp", "alpha":
			o.Alpha = p.V
		case "n":
			o.N = p.V
		case "swelow":
			o.SweLow = p.V
		default:
			return fmt.Errorf("vangenuchten: parameter named %q is incorrect", p.N)
		}
	}
	if o.Alpha <= 0 || o.N <= 1 {
		return fmt.Errorf("vangenuchten: need alpha > 0 and n > 1, got %g and %g", o.Alpha, o.N)
	}
	o.M = 1 - 1/o.N
	return
}

func (o VanGenuchten) GetPrms(example bool) Prms {
	if example {
		return Prms{
			&Prm{N: "alpha", V: 3.7e-4},
			&Prm{N: "n", V: 4.7},
		}
	}
	return Prms{
		&Prm{N: "alpha", V: o.Alpha},
		&Prm{N: "n", V: o.N},
		&Prm{N: "swelow", V: o.SweLow},
	}
}

func (o VanGenuchten) pc(Swe float64) float64 {
	return math.Pow(math.Pow(Swe, -1/o.M)-1, 1/o.N) / o.Alpha
}

func (o VanGenuchten) dpcdSwe(Swe float64) float64 {
	c := math.Pow(Swe, -1/o.M) - 1
	return -1 / (o.Alpha * o.N * o.M) * math.Pow(c, 1/o.N-1) * math.Pow(Swe, -1/o.M-1)
}

func (o VanGenuchten) Pcnw(Swe float64) float64 {
	switch {
	case Swe < o.SweLow:
		return o.pc(o.SweLow) + o.dpcdSwe(o.SweLow)*(Swe-o.SweLow)
	case Swe >= 1:
		return 0
	}
	return o.pc(Swe)
}

func (o VanGenuchten) Krw(Swe float64) float64 {
	Swe = clamp(Swe, 0, 1)
	r := 1 - math.Pow(1-math.Pow(Swe, 1/o.M), o.M)
	return math.Sqrt(Swe) * r * r
}

func (o VanGenuchten) Krn(Swe float64) float64 {
	Swe = clamp(Swe, 0, 1)
	return math.Cbrt(1-Swe) * math.Pow(1-math.Pow(Swe, 1/o.M), 2*o.M)
}
