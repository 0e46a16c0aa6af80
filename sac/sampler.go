package sac

import "math/rand"

// Sampler supplies candidate minimal samples to the consensus search.
type Sampler interface {
	// Sample returns k distinct indices from the candidate set. It may
	// return fewer than k when the set is too small.
	Sample(k int) []int
}

// RandomSampler draws uniform samples without replacement from a fixed
// index set.
type RandomSampler struct {
	indices []int
	scratch []int
	rng     *rand.Rand
}

// NewRandomSampler creates a sampler over the given index set. The seed
// makes runs reproducible; pass a varying value for exploratory use.
func NewRandomSampler(indices []int, seed int64) *RandomSampler {
	scratch := make([]int, len(indices))
	copy(scratch, indices)
	return &RandomSampler{
		indices: indices,
		scratch: scratch,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Sample draws k distinct indices by a partial Fisher-Yates shuffle of the
// scratch copy.
func (s *RandomSampler) Sample(k int) []int {
	if k > len(s.scratch) {
		k = len(s.scratch)
	}
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(s.scratch)-i)
		s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]
	}
	sample := make([]int, k)
	copy(sample, s.scratch[:k])
	return sample
}

var _ Sampler = (*RandomSampler)(nil)
