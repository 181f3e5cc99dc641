package utils

// HarmonicMean of two non negative values, zero if either is zero
func HarmonicMean(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}

// HarmonicMeanTensor is the entry wise harmonic mean of two 2x2 tensors.
// Off diagonal entries, which may be negative, use the arithmetic mean.
func HarmonicMeanTensor(Ki, Kj [2][2]float64) (K [2][2]float64) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if i == j {
				K[i][j] = HarmonicMean(Ki[i][j], Kj[i][j])
			} else {
				K[i][j] = 0.5 * (Ki[i][j] + Kj[i][j])
			}
		}
	}
	return
}

func Dot2(a, b [2]float64) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func MatVec2(K [2][2]float64, v [2]float64) (r [2]float64) {
	r[0] = K[0][0]*v[0] + K[0][1]*v[1]
	r[1] = K[1][0]*v[0] + K[1][1]*v[1]
	return
}

// IsotropicTensor returns k times the 2x2 identity
func IsotropicTensor(k float64) [2][2]float64 {
	return [2][2]float64{{k, 0}, {0, k}}
}
