package utils

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Test parallel degree clamping
		assert.Equal(t, 3, ParallelDegree(3, 100))
		assert.Equal(t, 4, ParallelDegree(8, 4))
		assert.Equal(t, 1, ParallelDegree(2, 0))
	}
}

func TestParallelFor(t *testing.T) {
	{ // Every index visited exactly once
		var (
			K      = 101
			pm     = NewPartitionMap(7, K)
			visits = make([]int32, K)
		)
		err := pm.ParallelFor(func(np, kMin, kMax int) error {
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&visits[k], 1)
			}
			return nil
		})
		require.NoError(t, err)
		for k := 0; k < K; k++ {
			assert.Equal(t, int32(1), visits[k])
		}
	}
	{ // Lowest failing bucket wins
		pm := NewPartitionMap(4, 40)
		err := pm.ParallelFor(func(np, kMin, kMax int) error {
			if np >= 2 {
				return fmt.Errorf("bucket %d", np)
			}
			return nil
		})
		assert.EqualError(t, err, "bucket 2")
	}
}
