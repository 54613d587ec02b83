// Package agents provides the learning agent: its belief about the shared
// state, its current action, energy reserves, learned value table and the
// derived power/agency/contribution scalars read by observers.
package agents

import (
	"fmt"

	"github.com/talgya/predictive-agency/internal/world"
)

// AgentID is a unique identifier for an agent within one simulation.
type AgentID uint64

// AgentType is the socio-economic archetype of an agent.
type AgentType string

const (
	TypePlatform  AgentType = "platform"
	TypeDriver    AgentType = "driver"
	TypeRegulator AgentType = "regulator"
	TypeInvestor  AgentType = "investor"
)

// ParseAgentType validates a type name.
func ParseAgentType(s string) (AgentType, error) {
	switch t := AgentType(s); t {
	case TypePlatform, TypeDriver, TypeRegulator, TypeInvestor:
		return t, nil
	}
	return "", fmt.Errorf("unknown agent type %q", s)
}

// Energy bounds and starting reserves.
const (
	InitialEnergy    = 100.0
	CarryingCapacity = 150.0 // max energy per agent
)

// BeliefUncertainty is the fixed uncertainty assigned on every observation.
const BeliefUncertainty = 0.1

// Belief is an agent's estimate of the global state.
type Belief struct {
	Mean        world.GlobalState `json:"mean"`
	Uncertainty float64           `json:"uncertainty"`
}

// LocalState holds an agent's private reserves.
type LocalState struct {
	Energy float64 `json:"energy"` // 0–150
	Stress float64 `json:"stress"`
}

// Agent is a learner in the ecosystem.
type Agent struct {
	ID   AgentID   `json:"id"`
	Type AgentType `json:"type"`

	// Preference anchor from the scenario; never changes after spawn.
	InitialTakeRate     float64 `json:"initial_take_rate"`
	InitialServiceLevel float64 `json:"initial_service_level"`

	Belief Belief       `json:"belief"`
	Action world.Action `json:"action"`
	Local  LocalState   `json:"local"`

	// Derived metrics, written by the simulation.
	Power        float64 `json:"power"`
	Agency       float64 `json:"agency"`
	Contribution float64 `json:"contribution"`

	values ValueTable
}

// New creates an agent anchored at the given take rate and service level.
func New(id AgentID, typ AgentType, takeRate, serviceLevel float64) *Agent {
	return &Agent{
		ID:                  id,
		Type:                typ,
		InitialTakeRate:     takeRate,
		InitialServiceLevel: serviceLevel,
		Belief: Belief{
			Mean: world.GlobalState{
				Demand:     50,
				Capacity:   50,
				Safety:     50,
				Surplus:    50,
				Trust:      50,
				Congestion: 20,
			},
			Uncertainty: BeliefUncertainty,
		},
		Action: world.Action{
			TakeRate:     takeRate,
			ServiceLevel: serviceLevel,
			Openness:     0.5,
		},
		Local:  LocalState{Energy: InitialEnergy},
		values: make(ValueTable),
	}
}

// Energy returns the agent's current reserves.
func (a *Agent) Energy() float64 {
	return a.Local.Energy
}

// KnownValues returns the number of stored (state, action) entries.
func (a *Agent) KnownValues() int {
	return len(a.values)
}
