package materiallaw

import (
	"github.com/notargets/goporous/fluidstate"
)

// EffToAbs maps absolute saturations to effective ones using the residual
// saturations of both phases before calling the wrapped relation.
type EffToAbs struct {
	Eff      Effective
	Swr, Snr float64
}

func (o *EffToAbs) Init(prms Prms) (err error) {
	var rest Prms
	for _, p := range prms {
		switch p.N {
		case "swr":
			o.Swr = p.V
		case "snr":
			o.Snr = p.V
		default:
			rest = append(rest, p)
		}
	}
	return o.Eff.Init(rest)
}

func (o *EffToAbs) GetPrms(example bool) Prms {
	return append(Prms{
		&Prm{N: "swr", V: o.Swr},
		&Prm{N: "snr", V: o.Snr},
	}, o.Eff.GetPrms(example)...)
}

func (o *EffToAbs) Swe(Sw float64) float64 {
	return (Sw - o.Swr) / (1 - o.Swr - o.Snr)
}

func (o *EffToAbs) CapillaryPressures(pc []float64, fs *fluidstate.Compositional) {
	pc[0] = 0
	pc[1] = o.Eff.Pcnw(o.Swe(fs.Saturation[0]))
}

func (o *EffToAbs) RelativePermeabilities(kr []float64, fs *fluidstate.Compositional) {
	Swe := o.Swe(fs.Saturation[0])
	kr[0] = o.Eff.Krw(Swe)
	kr[1] = o.Eff.Krn(Swe)
}
