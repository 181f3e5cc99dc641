package utils

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DOK accumulates a sparse matrix one entry at a time
type DOK struct {
	M *sparse.DOK
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }
func (m DOK) NNZ() int            { return m.M.NNZ() }

func (m DOK) Set(i, j int, val float64) {
	m.M.Set(i, j, val)
}

// Add sums val into entry (i,j)
func (m DOK) Add(i, j int, val float64) {
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

func (m DOK) ToCSR() *sparse.CSR {
	return m.M.ToCSR()
}

// MulVec returns m x, walking the nonzeros of the compressed form
func (m DOK) MulVec(x []float64) (y []float64) {
	nr, _ := m.Dims()
	y = make([]float64, nr)
	m.ToCSR().DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}

func (m DOK) ToDense() *mat.Dense {
	return m.M.ToDense()
}
