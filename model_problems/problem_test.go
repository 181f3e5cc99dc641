package model_problems

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/goporous/InputParameters"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/materiallaw"
	"github.com/notargets/goporous/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideProblem(t *testing.T) {
	ip := InputParameters.NewInputParameters()
	require.NoError(t, ip.Parse([]byte(`
EnableGravity: true
BCs:
  left:
    Type: dirichlet
    Values: [2.e5, 0.1]
  right:
    Types: [dirichlet, outflow]
    Values: [1.e5, 0.]
  top:
    Type: neumann
    Values: [0., -1.e-3]
`)))
	sp, err := NewSideProblem(ip, 2)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, -9.81}, sp.Gravity())
	var (
		g      = grid.NewRect2D(2, 2, 1, 1)
		bt     = types.NewBoundaryTypes(2)
		values = make([]float64, 2)
	)
	{ // Interior of a side
		sp.BoundaryTypes(&bt, g.Vertices[3]) // (0,1) on the left
		assert.Equal(t, []types.BCFLAG{types.BC_Dirichlet, types.BC_Dirichlet}, bt.Eq)
		sp.Dirichlet(values, g.Vertices[3])
		assert.Equal(t, []float64{2.e5, 0.1}, values)
		sp.BoundaryTypes(&bt, g.Vertices[1]) // (1,0) on the closed bottom
		assert.Equal(t, []types.BCFLAG{types.BC_Neumann, types.BC_Neumann}, bt.Eq)
	}
	{ // Corners take the strongest condition per equation
		sp.BoundaryTypes(&bt, g.Vertices[8]) // Top right
		assert.Equal(t, []types.BCFLAG{types.BC_Dirichlet, types.BC_Outflow}, bt.Eq)
		sp.Dirichlet(values, g.Vertices[8])
		assert.Equal(t, 1.e5, values[0])
		sp.BoundaryTypes(&bt, g.Vertices[6]) // Top left
		assert.Equal(t, []types.BCFLAG{types.BC_Dirichlet, types.BC_Dirichlet}, bt.Eq)
	}
	{ // Neumann fluxes follow the face side
		eg := g.Geometry(3)
		for _, bf := range eg.Boundary {
			sp.Neumann(values, g.Vertices[eg.Vertices[bf.ScvIdx]], &bf)
			if bf.Side == grid.Top {
				assert.Equal(t, []float64{0, -1.e-3}, values)
			}
		}
	}
}

func TestMaterialLaw(t *testing.T) {
	ip := InputParameters.NewInputParameters()
	{ // Default law with example parameters
		law, err := MaterialLaw(ip, "vangenuchten")
		require.NoError(t, err)
		assert.IsType(t, &materiallaw.EffToAbs{}, law)
	}
	{ // Law from the parameter database
		file := filepath.Join(t.TempDir(), "materials.ini")
		require.NoError(t, os.WriteFile(file, []byte("[sand]\nlaw = brookscorey\nswr = 0.05\npe = 500\nlambda = 2\n"), 0644))
		ip.MaterialFile, ip.Material = file, "sand"
		law, err := MaterialLaw(ip, "")
		require.NoError(t, err)
		assert.Equal(t, 0.05, law.(*materiallaw.EffToAbs).Swr)
		ip.Material = "clay"
		_, err = MaterialLaw(ip, "")
		assert.Error(t, err)
		ip.MaterialFile = ""
		_, err = MaterialLaw(ip, "")
		assert.Error(t, err)
	}
	{ // Solver settings
		ip.Newton.MaxIterations, ip.MaxDt = 7, 50
		tl := NewTimeLoop(ip)
		assert.Equal(t, 7, tl.Newton.MaxIterations)
		assert.Equal(t, 50., tl.MaxDt)
		ip.ConstraintSolver.MaxIterations = 0
		assert.Equal(t, 50, NewConstraintSolver(ip).MaxIterations)
	}
}
