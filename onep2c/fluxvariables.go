package onep2c

import (
	"github.com/notargets/goporous/box"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/utils"
)

// FluxVariables are the quantities at the integration point of a sub
// control volume face or of a boundary face
type FluxVariables struct {
	Normal           [2]float64 // Area scaled
	UpstreamIdx      int
	DownstreamIdx    int
	KmvpNormal       float64 // -(K grad(phi)).n, the Darcy flux without mobility
	PotentialGrad    [2]float64
	MoleFracGrad     [2]float64
	MassFracGrad     [2]float64
	DensityAtIP      float64
	MolarDensityAtIP float64
	PorousDiffCoeff  float64
}

// NewFluxVariables evaluates face faceIdx of the element
func NewFluxVariables(ctx *box.ElementContext[VolumeVariables], faceIdx int, gravity [2]float64) (fv FluxVariables) {
	var (
		face   = &ctx.Geometry.Scvf[faceIdx]
		vi, vj = ctx.VolVars[face.I], ctx.VolVars[face.J]
	)
	fv.Normal = face.Normal
	fv.interpolate(ctx, face.Shape, face.Grad, gravity)
	K := utils.HarmonicMeanTensor(vi.Permeability, vj.Permeability)
	fv.KmvpNormal = -utils.Dot2(utils.MatVec2(K, fv.PotentialGrad), fv.Normal)
	fv.UpstreamIdx, fv.DownstreamIdx = face.I, face.J
	if fv.KmvpNormal < 0 {
		fv.UpstreamIdx, fv.DownstreamIdx = face.J, face.I
	}
	fv.PorousDiffCoeff = utils.HarmonicMean(vi.PorousDiffCoeff(), vj.PorousDiffCoeff())
	return
}

// NewBoundaryVariables evaluates boundary face bfIdx using the parameters of
// its own sub control volume, which is always upstream
func NewBoundaryVariables(ctx *box.ElementContext[VolumeVariables], bfIdx int, gravity [2]float64) (fv FluxVariables) {
	var (
		bf = &ctx.Geometry.Boundary[bfIdx]
		vv = ctx.VolVars[bf.ScvIdx]
	)
	fv.Normal = bf.Normal
	fv.interpolate(ctx, bf.Shape, bf.Grad, gravity)
	fv.KmvpNormal = -utils.Dot2(utils.MatVec2(vv.Permeability, fv.PotentialGrad), fv.Normal)
	fv.UpstreamIdx, fv.DownstreamIdx = bf.ScvIdx, bf.ScvIdx
	fv.PorousDiffCoeff = vv.PorousDiffCoeff()
	return
}

func (fv *FluxVariables) interpolate(ctx *box.ElementContext[VolumeVariables],
	N [4]float64, G [4][2]float64, gravity [2]float64) {
	var p, x, X [4]float64
	for k := 0; k < 4; k++ {
		vv := ctx.VolVars[k]
		p[k], x[k], X[k] = vv.Pressure(), vv.MoleFrac(Comp1Idx), vv.MassFrac(Comp1Idx)
		fv.DensityAtIP += N[k] * vv.Density()
		fv.MolarDensityAtIP += N[k] * vv.MolarDensity()
	}
	fv.PotentialGrad = grid.Gradient(G, p)
	for i := range fv.PotentialGrad {
		fv.PotentialGrad[i] -= fv.DensityAtIP * gravity[i]
	}
	fv.MoleFracGrad = grid.Gradient(G, x)
	fv.MassFracGrad = grid.Gradient(G, X)
}
