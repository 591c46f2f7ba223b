package dataset

import (
	"math"
	"math/rand/v2"
)

// Partition holds disjoint row indexes into a Dataset.
type Partition struct {
	Train []int
	Test  []int
}

// Split partitions n rows into train and test sets. The test set has
// round(testRatio*n) rows. The shuffle depends only on n and seed; the test
// set takes the first positions of the permutation, in permutation order.
func Split(n int, testRatio float64, seed uint64) Partition {
	if n <= 0 {
		return Partition{}
	}

	nTest := int(math.Round(testRatio * float64(n)))
	if nTest < 0 {
		nTest = 0
	}
	if nTest > n {
		nTest = n
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	return Partition{
		Test:  indices[:nTest:nTest],
		Train: indices[nTest:],
	}
}
