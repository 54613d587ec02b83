// Package engine composes agents, learning, boundary scoping and power
// attribution into the per-tick simulation protocol, and provides the loop
// that drives it.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/predictive-agency/internal/agents"
	"github.com/talgya/predictive-agency/internal/boundary"
	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/entropy"
	"github.com/talgya/predictive-agency/internal/learning"
	"github.com/talgya/predictive-agency/internal/power"
	"github.com/talgya/predictive-agency/internal/world"
)

// ErrEmptyRoster is returned when a roster description yields no agents.
var ErrEmptyRoster = errors.New("empty agent roster")

// Simulation holds the complete ecosystem and wires the subsystems together.
type Simulation struct {
	cfg      config.Config
	rng      *entropy.Source
	agents   []*agents.Agent
	state    world.GlobalState
	learner  *learning.DifferentialQ
	boundary *boundary.Manager
	power    *power.Calculator

	tick    int
	history []HistoryEntry
	events  []Event

	// Exponential moving average of the instantaneous reward per boundary.
	avgReward [boundary.NumLevels]float64

	// Per-tick scratch vectors.
	actions        []world.Action
	counterfactual []world.Action
}

// NewSimulation spawns the roster from groups and prepares a run. All
// randomness is drawn from rng; pass entropy.New(cfg.Seed) for the
// configured seed.
func NewSimulation(groups []agents.Group, cfg config.Config, rng *entropy.Source) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source")
	}

	roster := agents.NewSpawner().Spawn(groups)
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	sim := &Simulation{
		cfg:            cfg,
		rng:            rng,
		agents:         roster,
		state:          world.InitialState(),
		learner:        learning.New(cfg.AlphaQ, cfg.BetaR),
		boundary:       boundary.NewManager(cfg.Boundaries),
		power:          power.NewCalculator(cfg.ShapleyPerms, rng),
		actions:        make([]world.Action, len(roster)),
		counterfactual: make([]world.Action, len(roster)),
	}
	return sim, nil
}

// Step advances the simulation by exactly one tick.
func (s *Simulation) Step() {
	// 1. Freeze the pre-transition state; rewards and TD targets use it.
	prev := s.state

	// 2. Observe and choose.
	catalog := s.learner.PossibleActions()
	for i, a := range s.agents {
		a.Observe(prev)
		a.Action = a.SelectAction(catalog, s.rng, s.cfg.Epsilon)
		s.actions[i] = a.Action
	}

	// 3. Score the same step under every boundary level.
	var inst [boundary.NumLevels]float64
	for _, l := range boundary.Levels {
		inst[l] = s.rewardAt(l, prev, s.actions)
		s.avgReward[l] += s.cfg.BetaR * (inst[l] - s.avgReward[l])
	}

	// 4. Ecosystem vs network view.
	active := s.boundary.Current()
	rEco := inst[active]
	rNet := inst[boundary.B0]
	alignment := boundary.AlignmentCoefficient(rEco, rNet)

	// 5. Counterfactual agency: zero one agent's action at a time.
	copy(s.counterfactual, s.actions)
	for i, a := range s.agents {
		s.counterfactual[i] = world.ZeroAction
		a.Agency = rEco - s.rewardAt(active, prev, s.counterfactual)
		s.counterfactual[i] = s.actions[i]
	}

	// 6. The only mutation of the global state this tick.
	world.Transition(&s.state, s.actions, s.boundary.DynamicsCouplings())

	// 7. Learn and metabolize.
	for _, a := range s.agents {
		s.learner.Update(a, prev, a.Action, rEco, s.state)
		a.UpdateEnergy(s.state.Surplus)
	}

	// 8. Throttled attribution.
	if s.tick%s.cfg.PowerUpdateFreq == 0 {
		s.recomputePower()
	}

	// 9. Record.
	s.history = append(s.history, HistoryEntry{
		Tick:          s.tick,
		RBar:          s.learner.RBar,
		Reward:        rEco,
		NetworkReward: rNet,
		Alignment:     alignment,
		Boundary:      active,
		State:         s.state,
		TotalEnergy:   agents.TotalEnergy(s.agents),
		AvgAgency:     agents.MeanAgency(s.agents),
		RBarB:         s.avgReward,
		RInstB:        inst,
	})
	s.tick++
}

func (s *Simulation) recomputePower() {
	for _, a := range s.agents {
		a.ComputeContribution(s.state)
	}
	for _, a := range s.agents {
		a.Power = s.power.ComputePower(a, s.agents)
	}
	slog.Debug("power recomputed", "tick", s.tick, "agents", len(s.agents))
}

// ExpandBoundary widens the accountability frontier by one level. It is a
// no-op once B2 is reached.
func (s *Simulation) ExpandBoundary() {
	from := s.boundary.Current()
	s.boundary.Expand()
	to := s.boundary.Current()
	if from == to {
		return
	}
	s.events = append(s.events, Event{
		Tick:        s.tick,
		Description: fmt.Sprintf("boundary expanded from %s to %s", from, to),
		Category:    "boundary",
	})
	slog.Info("boundary expanded", "tick", s.tick, "from", from.String(), "to", to.String())
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int {
	return s.tick
}

// State returns a copy of the current global state.
func (s *Simulation) State() world.GlobalState {
	return s.state
}

// RBar returns the shared average-reward baseline.
func (s *Simulation) RBar() float64 {
	return s.learner.RBar
}

// Boundary returns the active boundary level.
func (s *Simulation) Boundary() boundary.Level {
	return s.boundary.Current()
}

// Seed returns the seed of the simulation's random source.
func (s *Simulation) Seed() int64 {
	return s.rng.Seed()
}

// Config returns the tuning the simulation was built with.
func (s *Simulation) Config() config.Config {
	return s.cfg
}

// Agents returns the roster. Observers may read the derived scalars but
// must not mutate agents between steps.
func (s *Simulation) Agents() []*agents.Agent {
	return s.agents
}

// History returns a copy of the per-tick log.
func (s *Simulation) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Since returns a copy of the entries recorded at or after tick.
func (s *Simulation) Since(tick int) []HistoryEntry {
	if tick < 0 {
		tick = 0
	}
	if tick >= len(s.history) {
		return nil
	}
	out := make([]HistoryEntry, len(s.history)-tick)
	copy(out, s.history[tick:])
	return out
}

// Events returns a copy of the notable events recorded so far.
func (s *Simulation) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Summary aggregates the last window ticks of history.
func (s *Simulation) Summary(window int) Summary {
	return Summarize(s.history, window)
}
