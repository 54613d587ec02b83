// Package learning implements average-reward (differential) Q-learning with a
// single baseline shared by every agent, plus the fixed action catalog all
// agents choose from.
package learning

import (
	"math"

	"github.com/talgya/predictive-agency/internal/agents"
	"github.com/talgya/predictive-agency/internal/world"
)

// Baseline clamp keeps r̄ from running away.
const (
	MinRBar = -1000.0
	MaxRBar = 1000.0
)

// CatalogSize is the number of discrete actions offered each tick.
const CatalogSize = 20

var (
	catalogTakeRates     = []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3}
	catalogServiceLevels = []float64{0.3, 0.5, 0.7, 0.9}
	catalogOpenness      = []float64{0.2, 0.5, 0.8}
)

// DifferentialQ holds the learning rates and the system-wide average-reward
// baseline.
type DifferentialQ struct {
	Alpha float64 // value step size
	Beta  float64 // baseline step size
	RBar  float64

	catalog []world.Action
}

// New creates a learner with the given step sizes and a zero baseline.
func New(alpha, beta float64) *DifferentialQ {
	return &DifferentialQ{
		Alpha:   alpha,
		Beta:    beta,
		catalog: buildCatalog(),
	}
}

// Update applies one TD step for agent and returns the TD error
//
//	δ = r − r̄ + max_a' Q(s',a') − Q(s,a)
//
// Q is written through agent.SetValue, so the discomfort penalty applies.
func (q *DifferentialQ) Update(a *agents.Agent, state world.GlobalState, action world.Action, reward float64, next world.GlobalState) float64 {
	current := a.Value(state, action)
	delta := reward - q.RBar + q.maxValue(a, next) - current

	a.SetValue(state, action, current+q.Alpha*delta)

	q.RBar = world.Clamp(q.RBar+q.Beta*delta, MinRBar, MaxRBar)
	return delta
}

func (q *DifferentialQ) maxValue(a *agents.Agent, state world.GlobalState) float64 {
	best := math.Inf(-1)
	for _, action := range q.catalog {
		best = math.Max(best, a.Value(state, action))
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// PossibleActions returns the shared action catalog. Callers must not
// modify the returned slice.
func (q *DifferentialQ) PossibleActions() []world.Action {
	return q.catalog
}

// Reset zeroes the baseline.
func (q *DifferentialQ) Reset() {
	q.RBar = 0
}

// buildCatalog enumerates take rate × service × openness in nested order and
// keeps the first CatalogSize combinations.
func buildCatalog() []world.Action {
	actions := make([]world.Action, 0, len(catalogTakeRates)*len(catalogServiceLevels)*len(catalogOpenness))
	for _, tr := range catalogTakeRates {
		for _, sl := range catalogServiceLevels {
			for _, op := range catalogOpenness {
				actions = append(actions, world.Action{TakeRate: tr, ServiceLevel: sl, Openness: op})
			}
		}
	}
	return actions[:CatalogSize]
}
