package engine

import (
	"github.com/talgya/predictive-agency/internal/boundary"
	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/world"
)

// Friction mix between congestion and the safety deficit.
const (
	congestionFriction = 0.4
	safetyFriction     = 0.6
)

// Reward scores one tick's action vector against state under the reward
// shaping w of a single boundary level. It is a pure function.
func Reward(cfg config.Config, w boundary.RewardWeights, s world.GlobalState, actions []world.Action) float64 {
	value := cfg.WSurplus*s.Surplus +
		cfg.WSafety*s.Safety +
		cfg.WTrust*s.Trust +
		cfg.WCapacity*s.Capacity +
		cfg.WDemand*s.Demand

	avgTake, _ := world.Means(actions)
	extraction := avgTake * cfg.ExtractionPenalty

	frictionRaw := congestionFriction*s.Congestion + safetyFriction*(100-s.Safety)*w.Safety
	friction := frictionRaw * cfg.FrictionPenalty * w.Friction

	return value - extraction - friction
}

// rewardAt scores actions against s at boundary level l.
func (sim *Simulation) rewardAt(l boundary.Level, s world.GlobalState, actions []world.Action) float64 {
	return Reward(sim.cfg, sim.boundary.RewardWeightsFor(l), s, actions)
}
