package agents

import (
	"math"

	"github.com/talgya/predictive-agency/internal/world"
)

// DiscomfortWeight scales the penalty for acting away from the agent's
// innate take rate.
const DiscomfortWeight = 5.0

// StateKey is the exact bit signature of a GlobalState. Two states share a
// key only if every scalar is bit-identical.
type StateKey [6]uint64

// KeyOf returns the signature of s.
func KeyOf(s world.GlobalState) StateKey {
	return StateKey{
		math.Float64bits(s.Demand),
		math.Float64bits(s.Capacity),
		math.Float64bits(s.Safety),
		math.Float64bits(s.Surplus),
		math.Float64bits(s.Trust),
		math.Float64bits(s.Congestion),
	}
}

// ValueKey addresses one entry of a value table.
type ValueKey struct {
	State  StateKey
	Action world.Action
}

// ValueTable maps exact (state, action) pairs to learned values.
type ValueTable map[ValueKey]float64

// Value returns the learned value of taking action in state; unseen pairs are 0.
func (a *Agent) Value(state world.GlobalState, action world.Action) float64 {
	return a.values[ValueKey{State: KeyOf(state), Action: action}]
}

// SetValue stores value minus the discomfort penalty for action's distance
// from the agent's initial take rate. The penalty is applied on every write.
func (a *Agent) SetValue(state world.GlobalState, action world.Action, value float64) {
	discomfort := math.Abs(action.TakeRate-a.InitialTakeRate) * DiscomfortWeight
	a.values[ValueKey{State: KeyOf(state), Action: action}] = value - discomfort
}
