package core

import "math/rand/v2"

// NewRNG creates a deterministic random source from the provided seed. Every
// stochastic draw in a simulation must flow through a single seeded source so
// that identical seeds replay identical runs.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Shuffle permutes ints[0:n] in place using the provided source.
func Shuffle(r *rand.Rand, ints []int) {
	r.Shuffle(len(ints), func(i, j int) {
		ints[i], ints[j] = ints[j], ints[i]
	})
}

// WeightedPick returns an index into weights chosen with probability
// proportional to its (non-negative) weight, or -1 when no weight is positive.
func WeightedPick(r *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	pick := r.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		pick -= w
		if pick < 0 {
			return i
		}
	}
	// Rounding can leave pick at exactly zero after the final positive
	// weight; settle on that entry, never on a zero-weight one.
	return last
}
