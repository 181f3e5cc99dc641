package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SolveDense solves A x = b by LU factorization. A singular or numerically
// singular A is reported through the returned error.
func SolveDense(A mat.Matrix, b []float64) (x []float64, err error) {
	var (
		nr, nc = A.Dims()
		lu     mat.LU
		xv     mat.VecDense
	)
	if nr != nc || nr != len(b) {
		err = fmt.Errorf("dimension mismatch: A is %dx%d, len(b) = %d", nr, nc, len(b))
		return
	}
	lu.Factorize(A)
	if err = lu.SolveVecTo(&xv, false, mat.NewVecDense(len(b), b)); err != nil {
		return
	}
	x = make([]float64, nr)
	copy(x, xv.RawVector().Data)
	return
}
