package dutil

import (
	"fmt"
	"math/rand"
)

// Sampler yields an index sequence over a dataset.
type Sampler interface {
	Sample() []int
	BatchSize() int
}

// SequentialSampler yields indexes in dataset order.
type SequentialSampler struct {
	n int
}

// NewSequentialSampler creates a SequentialSampler over n samples.
func NewSequentialSampler(n int) (*SequentialSampler, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dutil: invalid sample count (%v)", n)
	}

	return &SequentialSampler{n: n}, nil
}

// Sample implements Sampler interface for SequentialSampler.
func (s *SequentialSampler) Sample() []int {
	indexes := make([]int, s.n)
	for i := range indexes {
		indexes[i] = i
	}

	return indexes
}

// BatchSize implements Sampler interface for SequentialSampler.
// Samples are yielded one at a time.
func (s *SequentialSampler) BatchSize() int {
	return 1
}

// RandomSampler yields a permutation of the dataset indexes.
type RandomSampler struct {
	n int
}

// NewRandomSampler creates a RandomSampler over n samples.
func NewRandomSampler(n int) (*RandomSampler, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dutil: invalid sample count (%v)", n)
	}

	return &RandomSampler{n: n}, nil
}

// Sample implements Sampler interface for RandomSampler.
func (s *RandomSampler) Sample() []int {
	return rand.Perm(s.n)
}

// BatchSize implements Sampler interface for RandomSampler.
func (s *RandomSampler) BatchSize() int {
	return 1
}

// BatchSampler yields batches of indexes, optionally shuffled, optionally
// dropping a trailing partial batch.
type BatchSampler struct {
	n         int
	batchSize int
	dropLast  bool
	shuffle   bool
}

// NewBatchSampler creates a BatchSampler.
func NewBatchSampler(n, batchSize int, dropLast, shuffle bool) (*BatchSampler, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dutil: invalid sample count (%v)", n)
	}
	if batchSize <= 0 || batchSize > n {
		return nil, fmt.Errorf("dutil: invalid batch size (%v) for %v samples", batchSize, n)
	}

	return &BatchSampler{
		n:         n,
		batchSize: batchSize,
		dropLast:  dropLast,
		shuffle:   shuffle,
	}, nil
}

// Sample implements Sampler interface for BatchSampler.
func (s *BatchSampler) Sample() []int {
	var indexes []int
	if s.shuffle {
		indexes = rand.Perm(s.n)
	} else {
		indexes = make([]int, s.n)
		for i := range indexes {
			indexes[i] = i
		}
	}

	if s.dropLast {
		indexes = indexes[:(s.n/s.batchSize)*s.batchSize]
	}

	return indexes
}

// BatchSize implements Sampler interface for BatchSampler.
func (s *BatchSampler) BatchSize() int {
	return s.batchSize
}
