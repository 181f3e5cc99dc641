package utils

import (
	"runtime"
	"sync"
)

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// ParallelDegree picks the number of shards used to cover Kmax items, a
// ProcLimit of zero selects one shard per CPU.
func ParallelDegree(ProcLimit, Kmax int) (np int) {
	if ProcLimit > 0 {
		np = ProcLimit
	} else {
		np = runtime.NumCPU()
	}
	if np > Kmax {
		np = Kmax
	}
	if np < 1 {
		np = 1
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (kMax int) {
	if bn == -1 {
		kMax = pm.MaxIndex
		return
	}
	var (
		k1, k2 = pm.GetBucketRange(bn)
	)
	kMax = k2 - k1
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// Splits one dimension into ParallelDegree pieces, maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ParallelFor runs f on every bucket concurrently and waits for all of them.
// The returned error is the one from the lowest numbered failing bucket.
func (pm *PartitionMap) ParallelFor(f func(np, kMin, kMax int) error) (err error) {
	var (
		wg   = sync.WaitGroup{}
		errs = make([]error, pm.ParallelDegree)
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			kMin, kMax := pm.GetBucketRange(np)
			errs[np] = f(np, kMin, kMax)
			wg.Done()
		}(np)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			err = e
			return
		}
	}
	return
}
