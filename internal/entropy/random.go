// Package entropy provides the single seeded random source that every
// stochastic decision in a simulation draws from. Threading one Source
// through action selection and permutation sampling keeps a run
// reproducible: same seed, same draw order, same trajectory.
package entropy

import "math/rand"

// Source is a seeded pseudo-random generator. It is not safe for
// concurrent use; each simulation owns its own.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float64 returns a pseudo-random number in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Intn returns a pseudo-random number in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Shuffle permutes n elements in place with a Fisher–Yates shuffle.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
