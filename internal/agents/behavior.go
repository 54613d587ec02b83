package agents

import (
	"math"

	"github.com/talgya/predictive-agency/internal/world"
)

// Rand is the subset of a seeded generator an agent draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Energy flow coefficients.
const (
	ServiceEnergyCost = 0.5
	SurplusEnergyGain = 1.5
)

// Observe sets the belief to an exact copy of state. No noise, no filtering.
func (a *Agent) Observe(state world.GlobalState) {
	a.Belief.Mean = state
	a.Belief.Uncertainty = BeliefUncertainty
}

// SelectAction picks an action from catalog epsilon-greedily. Exploitation
// scans in catalog order and keeps the first strict maximum; if nothing beats
// −∞ the current action is kept. It does not assign a.Action.
func (a *Agent) SelectAction(catalog []world.Action, rng Rand, epsilon float64) world.Action {
	if len(catalog) == 0 {
		panic("agents: empty action catalog")
	}

	if rng.Float64() < epsilon {
		return catalog[rng.Intn(len(catalog))]
	}

	best := a.Action
	maxValue := math.Inf(-1)
	for _, action := range catalog {
		if v := a.Value(a.Belief.Mean, action); v > maxValue {
			maxValue = v
			best = action
		}
	}
	return best
}

// UpdateEnergy pays the service cost and gains from system surplus on a
// logistic approach to the carrying capacity.
func (a *Agent) UpdateEnergy(systemSurplus float64) {
	cost := a.Action.ServiceLevel * ServiceEnergyCost

	// The closer to capacity, the harder it is to gain more.
	gainFactor := math.Max(0, 1-a.Local.Energy/CarryingCapacity)
	gain := (systemSurplus / 100) * SurplusEnergyGain * gainFactor

	a.Local.Energy = world.Clamp(a.Local.Energy+gain-cost, 0, CarryingCapacity)
}

// ComputeContribution records circulation minus extraction under state.
func (a *Agent) ComputeContribution(state world.GlobalState) float64 {
	circulation := a.Action.ServiceLevel * a.Action.Openness * 10
	extraction := a.Action.TakeRate * state.Surplus
	a.Contribution = circulation - extraction
	return a.Contribution
}
