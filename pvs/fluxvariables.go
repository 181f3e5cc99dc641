package pvs

import (
	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/utils"
)

// FluxVariables are the per phase quantities at the integration point of a
// face. Fractions are on the unit basis of the model.
type FluxVariables struct {
	Normal          [2]float64
	KmvpNormal      []float64
	UpstreamIdx     []int
	DownstreamIdx   []int
	PotentialGrad   [][2]float64
	FracGrad        [][][2]float64 // [phase][component]
	DensityAtIP     []float64
	QuantityAtIP    []float64
	PorousDiffCoeff [][]float64
	TemperatureGrad [2]float64
}

func (m *Model) newFluxVariables(ctx *box.ElementContext[VolumeVariables],
	N [4]float64, G [4][2]float64, normal [2]float64) (fv FluxVariables) {
	var (
		np, nc  = m.NumPhases, m.NumComponents
		gravity = m.problem.Gravity()
		p4, T4  [4]float64
	)
	fv = FluxVariables{
		Normal:          normal,
		KmvpNormal:      make([]float64, np),
		UpstreamIdx:     make([]int, np),
		DownstreamIdx:   make([]int, np),
		PotentialGrad:   make([][2]float64, np),
		FracGrad:        make([][][2]float64, np),
		DensityAtIP:     make([]float64, np),
		QuantityAtIP:    make([]float64, np),
		PorousDiffCoeff: make([][]float64, np),
	}
	for p := 0; p < np; p++ {
		fv.FracGrad[p] = make([][2]float64, nc)
		fv.PorousDiffCoeff[p] = make([]float64, nc)
		for k := 0; k < 4; k++ {
			fs := ctx.VolVars[k].FluidState
			p4[k] = fs.Pressure[p]
			fv.DensityAtIP[p] += N[k] * fs.Density[p]
			fv.QuantityAtIP[p] += N[k] * m.Basis.Quantity(fs, p)
		}
		fv.PotentialGrad[p] = grid.Gradient(G, p4)
		for i := range gravity {
			fv.PotentialGrad[p][i] -= fv.DensityAtIP[p] * gravity[i]
		}
		for c := 1; c < nc; c++ {
			var F4 [4]float64
			for k := 0; k < 4; k++ {
				F4[k] = m.Basis.Fraction(ctx.VolVars[k].FluidState, p, c)
			}
			fv.FracGrad[p][c] = grid.Gradient(G, F4)
		}
	}
	for k := 0; k < 4; k++ {
		T4[k] = ctx.VolVars[k].FluidState.Temperature[0]
	}
	fv.TemperatureGrad = grid.Gradient(G, T4)
	return
}

// setDarcy computes the Darcy flux of phase p for permeability K and picks
// the upstream side of a face from i to j
func (fv *FluxVariables) setDarcy(p int, K [2][2]float64, i, j int) {
	fv.KmvpNormal[p] = -utils.Dot2(utils.MatVec2(K, fv.PotentialGrad[p]), fv.Normal)
	fv.UpstreamIdx[p], fv.DownstreamIdx[p] = i, j
	if fv.KmvpNormal[p] < 0 {
		fv.UpstreamIdx[p], fv.DownstreamIdx[p] = j, i
	}
}
