package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRect2D(t *testing.T) {
	g := NewRect2D(3, 2, 3., 1.)
	{ // Test counts and numbering
		assert.Equal(t, 12, g.NumVertices())
		assert.Equal(t, 6, g.NumElements())
		assert.Equal(t, [4]int{5, 6, 9, 10}, g.Elements[4])
		assert.Equal(t, [2]float64{1, 0.5}, g.Vertices[5].X)
		assert.True(t, g.Vertices[0].OnSide(Left) && g.Vertices[0].OnSide(Bottom))
		assert.False(t, g.Vertices[5].OnBoundary())
	}
	{ // Sub control volumes tile the domain
		var total float64
		for k := 0; k < g.NumElements(); k++ {
			for _, scv := range g.Geometry(k).Scv {
				total += scv.Volume
			}
		}
		assert.InDelta(t, 3., total, 1.e-14)
		var vtotal float64
		for v := 0; v < g.NumVertices(); v++ {
			vtotal += g.VertexVolume(v)
		}
		assert.InDelta(t, 3., vtotal, 1.e-14)
	}
	{ // Shape functions form a partition of unity with zero gradient sum
		eg := g.Geometry(2)
		for _, f := range eg.Scvf {
			var sum float64
			var gsum [2]float64
			for k := 0; k < 4; k++ {
				sum += f.Shape[k]
				gsum[0] += f.Grad[k][0]
				gsum[1] += f.Grad[k][1]
			}
			assert.InDelta(t, 1., sum, 1.e-14)
			assert.InDelta(t, 0., gsum[0], 1.e-14)
			assert.InDelta(t, 0., gsum[1], 1.e-14)
		}
	}
	{ // A linear field has its exact gradient at every integration point
		eg := g.Geometry(4)
		var u [4]float64
		for k, v := range eg.Vertices {
			x := g.Vertices[v].X
			u[k] = 2*x[0] - 3*x[1]
		}
		for _, f := range eg.Scvf {
			grad := Gradient(f.Grad, u)
			assert.InDelta(t, 2., grad[0], 1.e-12)
			assert.InDelta(t, -3., grad[1], 1.e-12)
			assert.InDelta(t, 2*f.IP[0]-3*f.IP[1], InterpolateScalar(f.Shape, u), 1.e-12)
		}
	}
	{ // Boundary faces: outward normals sum to zero over a closed domain
		var (
			nsum  [2]float64
			perim float64
		)
		for k := 0; k < g.NumElements(); k++ {
			for _, bf := range g.Geometry(k).Boundary {
				nsum[0] += bf.Normal[0]
				nsum[1] += bf.Normal[1]
				perim += bf.Area
				v := g.Vertices[g.Geometry(k).Vertices[bf.ScvIdx]]
				assert.True(t, v.OnSide(bf.Side))
			}
		}
		assert.InDelta(t, 0., nsum[0], 1.e-14)
		assert.InDelta(t, 0., nsum[1], 1.e-14)
		assert.InDelta(t, 8., perim, 1.e-14)
	}
	{ // Side names
		s, err := ParseSide("top")
		require.NoError(t, err)
		assert.Equal(t, Top, s)
		assert.Equal(t, "left", Left.String())
		_, err = ParseSide("front")
		assert.Error(t, err)
	}
}
