// Package power attributes systemic power to agents with a Monte-Carlo
// Shapley-value estimate over random arrival orders.
package power

import "github.com/talgya/predictive-agency/internal/agents"

// DefaultSamples is the permutation count per estimate.
const DefaultSamples = 16

// Shuffler draws uniform random permutations.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Calculator estimates Shapley values under the characteristic function
// v(S) = mean contribution of S's members, v(∅) = 0. The game is additive
// on purpose; there is no synergy term.
type Calculator struct {
	Samples int

	rng     Shuffler
	scratch []*agents.Agent
}

// NewCalculator creates a calculator drawing permutations from rng.
func NewCalculator(samples int, rng Shuffler) *Calculator {
	if samples < 1 {
		samples = DefaultSamples
	}
	return &Calculator{Samples: samples, rng: rng}
}

// ComputePower returns the mean marginal contribution of target over
// Samples random permutations of roster. A permutation that does not
// contain target is skipped, but the divisor stays Samples.
func (c *Calculator) ComputePower(target *agents.Agent, roster []*agents.Agent) float64 {
	if len(roster) == 0 {
		panic("power: empty roster")
	}

	sum := 0.0
	for i := 0; i < c.Samples; i++ {
		perm := c.permutation(roster)

		pos := -1
		for j, a := range perm {
			if a.ID == target.ID {
				pos = j
				break
			}
		}
		if pos == -1 {
			continue
		}

		before := perm[:pos]
		without := coalitionValue(before, nil)
		with := coalitionValue(before, target)
		sum += with - without
	}
	return sum / float64(c.Samples)
}

// permutation returns a freshly shuffled copy of roster. The slice is
// reused between calls.
func (c *Calculator) permutation(roster []*agents.Agent) []*agents.Agent {
	c.scratch = append(c.scratch[:0], roster...)
	perm := c.scratch
	c.rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return perm
}

// coalitionValue is the mean contribution of members plus extra (if non-nil).
func coalitionValue(members []*agents.Agent, extra *agents.Agent) float64 {
	n := len(members)
	total := 0.0
	for _, a := range members {
		total += a.Contribution
	}
	if extra != nil {
		total += extra.Contribution
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
