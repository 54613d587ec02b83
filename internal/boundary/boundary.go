// Package boundary tracks how far the accountability frontier extends:
// which externalities are weighted into reward and how strongly they couple
// back into the dynamics.
package boundary

import (
	"fmt"

	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/world"
)

// Level is a closed, ordered externality scope.
type Level uint8

const (
	B0 Level = iota // network only
	B1              // local externalities
	B2              // regional externalities
)

// NumLevels is the number of boundary levels.
const NumLevels = 3

// Levels lists every level in order.
var Levels = [NumLevels]Level{B0, B1, B2}

func (l Level) String() string {
	return fmt.Sprintf("B%d", uint8(l))
}

// AlignmentEpsilon keeps the alignment ratio finite.
const AlignmentEpsilon = 1e-6

// RewardWeights shape the friction penalty of the reward at one level.
type RewardWeights struct {
	Friction float64
	Safety   float64
}

// Manager is a one-way state machine over B0 → B1 → B2 holding per-level tuning.
type Manager struct {
	current Level
	tuning  [NumLevels]config.LevelTuning
}

// NewManager starts at B0 with the boundary tuning from cfg.
func NewManager(b config.Boundaries) *Manager {
	m := &Manager{current: B0}
	for i := range m.tuning {
		m.tuning[i] = b.Level(i)
	}
	return m
}

// Current returns the active level.
func (m *Manager) Current() Level {
	return m.current
}

// Expand moves one level outward. It is a no-op at B2.
func (m *Manager) Expand() {
	if m.current < B2 {
		m.current++
	}
}

// Reset returns to B0.
func (m *Manager) Reset() {
	m.current = B0
}

// SetTuning replaces the tuning for one level.
func (m *Manager) SetTuning(l Level, t config.LevelTuning) {
	m.tuning[l] = t
}

// RewardWeights returns the active level's reward shaping.
func (m *Manager) RewardWeights() RewardWeights {
	return m.RewardWeightsFor(m.current)
}

// RewardWeightsFor returns any level's reward shaping without changing the
// active level.
func (m *Manager) RewardWeightsFor(l Level) RewardWeights {
	t := m.tuning[l]
	return RewardWeights{Friction: t.Friction, Safety: t.Safety}
}

// DynamicsCouplings returns the active level's dynamics couplings.
func (m *Manager) DynamicsCouplings() world.Couplings {
	return m.DynamicsCouplingsFor(m.current)
}

// DynamicsCouplingsFor returns any level's couplings.
func (m *Manager) DynamicsCouplingsFor(l Level) world.Couplings {
	return m.tuning[l].Couplings
}

// AlignmentCoefficient is rEco / (rNet + ε): how far ecosystem-scoped reward
// diverges from the narrow network view. Reporting only.
func AlignmentCoefficient(rEco, rNet float64) float64 {
	return rEco / (rNet + AlignmentEpsilon)
}
