package matching

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Sampler picks a uniform random subset of candidate ids.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler seeded with seed, or with the current time
// when seed is 0. A fixed seed makes feeds reproducible in tests.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

// Sample returns up to n ids chosen from ids with reservoir sampling
// (Algorithm R). When len(ids) <= n all ids are returned in their input order.
// The input slice is not modified.
func (s *Sampler) Sample(ids []uint64, n int) []uint64 {
	if n <= 0 {
		return nil
	}
	if len(ids) <= n {
		out := make([]uint64, len(ids))
		copy(out, ids)
		return out
	}

	reservoir := make([]uint64, n)
	copy(reservoir, ids[:n])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n; i < len(ids); i++ {
		if j := s.rng.IntN(i + 1); j < n {
			reservoir[j] = ids[i]
		}
	}
	return reservoir
}
