package grid

// Bilinear shape functions on the unit square, local vertex order
// (0,0) (1,0) (0,1) (1,1)
func shapeValues(xi, eta float64) (N [4]float64) {
	N[0] = (1 - xi) * (1 - eta)
	N[1] = xi * (1 - eta)
	N[2] = (1 - xi) * eta
	N[3] = xi * eta
	return
}

// Physical gradients on an axis aligned DX by DY cell
func shapeGradients(xi, eta, DX, DY float64) (G [4][2]float64) {
	G[0] = [2]float64{-(1 - eta) / DX, -(1 - xi) / DY}
	G[1] = [2]float64{(1 - eta) / DX, -xi / DY}
	G[2] = [2]float64{-eta / DX, (1 - xi) / DY}
	G[3] = [2]float64{eta / DX, xi / DY}
	return
}

type SubControlVolume struct {
	GlobalIdx int
	Volume    float64
	X         [2]float64
}

// SubControlVolumeFace separates the sub control volumes I and J, Normal is
// scaled by the face area and points from I to J.
type SubControlVolumeFace struct {
	I, J   int
	IP     [2]float64
	Normal [2]float64
	Shape  [4]float64
	Grad   [4][2]float64
}

// BoundaryFace is the part of a domain boundary segment belonging to one sub
// control volume. Normal is outward and scaled by Area.
type BoundaryFace struct {
	ScvIdx int
	Side   Side
	Area   float64
	IP     [2]float64
	Normal [2]float64
	Shape  [4]float64
	Grad   [4][2]float64
}

type ElementGeometry struct {
	ElemIdx  int
	Vertices [4]int
	Scv      [4]SubControlVolume
	Scvf     [4]SubControlVolumeFace
	Boundary []BoundaryFace
}

func (g *Rect2D) newElementGeometry(k, ci, cj int) (eg ElementGeometry) {
	var (
		DX, DY = g.DX, g.DY
		x0     = [2]float64{float64(ci) * DX, float64(cj) * DY}
		local  = func(xi, eta float64) [2]float64 {
			return [2]float64{x0[0] + xi*DX, x0[1] + eta*DY}
		}
	)
	eg.ElemIdx = k
	eg.Vertices = g.Elements[k]
	for i := 0; i < 4; i++ {
		eg.Scv[i] = SubControlVolume{
			GlobalIdx: eg.Vertices[i],
			Volume:    0.25 * DX * DY,
			X:         g.Vertices[eg.Vertices[i]].X,
		}
	}
	// Interior faces: two vertical halves then two horizontal halves
	faces := [4]struct {
		i, j    int
		xi, eta float64
		n       [2]float64
	}{
		{0, 1, 0.5, 0.25, [2]float64{0.5 * DY, 0}},
		{2, 3, 0.5, 0.75, [2]float64{0.5 * DY, 0}},
		{0, 2, 0.25, 0.5, [2]float64{0, 0.5 * DX}},
		{1, 3, 0.75, 0.5, [2]float64{0, 0.5 * DX}},
	}
	for f, fc := range faces {
		eg.Scvf[f] = SubControlVolumeFace{
			I:      fc.i,
			J:      fc.j,
			IP:     local(fc.xi, fc.eta),
			Normal: fc.n,
			Shape:  shapeValues(fc.xi, fc.eta),
			Grad:   shapeGradients(fc.xi, fc.eta, DX, DY),
		}
	}
	// Boundary segments, each split between its two vertices
	segments := [4]struct {
		side   Side
		onSide bool
		v      [2]int
		ip     [2][2]float64
		n      [2]float64
	}{
		{Bottom, cj == 0, [2]int{0, 1}, [2][2]float64{{0.25, 0}, {0.75, 0}}, [2]float64{0, -1}},
		{Right, ci == g.NX-1, [2]int{1, 3}, [2][2]float64{{1, 0.25}, {1, 0.75}}, [2]float64{1, 0}},
		{Top, cj == g.NY-1, [2]int{2, 3}, [2][2]float64{{0.25, 1}, {0.75, 1}}, [2]float64{0, 1}},
		{Left, ci == 0, [2]int{0, 2}, [2][2]float64{{0, 0.25}, {0, 0.75}}, [2]float64{-1, 0}},
	}
	for _, seg := range segments {
		if !seg.onSide {
			continue
		}
		area := 0.5 * DX
		if seg.side == Left || seg.side == Right {
			area = 0.5 * DY
		}
		for n := 0; n < 2; n++ {
			xi, eta := seg.ip[n][0], seg.ip[n][1]
			eg.Boundary = append(eg.Boundary, BoundaryFace{
				ScvIdx: seg.v[n],
				Side:   seg.side,
				Area:   area,
				IP:     local(xi, eta),
				Normal: [2]float64{area * seg.n[0], area * seg.n[1]},
				Shape:  shapeValues(xi, eta),
				Grad:   shapeGradients(xi, eta, DX, DY),
			})
		}
	}
	return
}

// InterpolateScalar evaluates sum_k N_k u_k for shape values N
func InterpolateScalar(N [4]float64, u [4]float64) (r float64) {
	for k := 0; k < 4; k++ {
		r += N[k] * u[k]
	}
	return
}

// Gradient evaluates sum_k grad(N_k) u_k
func Gradient(G [4][2]float64, u [4]float64) (r [2]float64) {
	for k := 0; k < 4; k++ {
		r[0] += G[k][0] * u[k]
		r[1] += G[k][1] * u[k]
	}
	return
}
