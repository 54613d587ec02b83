package engine

import (
	"github.com/talgya/predictive-agency/internal/boundary"
	"github.com/talgya/predictive-agency/internal/world"
)

// HistoryEntry is the immutable snapshot recorded at the end of each tick.
type HistoryEntry struct {
	Tick          int               `json:"tick"`
	RBar          float64           `json:"r_bar"`
	Reward        float64           `json:"reward"`         // ecosystem reward at the active boundary
	NetworkReward float64           `json:"network_reward"` // always B0
	Alignment     float64           `json:"alignment"`
	Boundary      boundary.Level    `json:"boundary"`
	State         world.GlobalState `json:"state"`
	TotalEnergy   float64           `json:"total_energy"`
	AvgAgency     float64           `json:"avg_agency"`

	// Per-boundary exponential moving averages and instantaneous rewards,
	// indexed by boundary level.
	RBarB  [boundary.NumLevels]float64 `json:"r_bar_b"`
	RInstB [boundary.NumLevels]float64 `json:"r_inst_b"`
}

// Event is a notable occurrence during a run.
type Event struct {
	Tick        int    `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "boundary"
}

// Summary aggregates the tail of a run's history.
type Summary struct {
	Ticks          int               `json:"ticks"`
	MeanReward     float64           `json:"mean_reward"`
	FinalAlignment float64           `json:"final_alignment"`
	FinalState     world.GlobalState `json:"final_state"`
	RBar           float64           `json:"r_bar"`
	TotalEnergy    float64           `json:"total_energy"`
	Boundary       boundary.Level    `json:"boundary"`
}

// Summarize aggregates the last window entries of history (all of it when
// window <= 0).
func Summarize(history []HistoryEntry, window int) Summary {
	if len(history) == 0 {
		return Summary{}
	}
	tail := history
	if window > 0 && len(history) > window {
		tail = history[len(history)-window:]
	}
	sum := 0.0
	for _, h := range tail {
		sum += h.Reward
	}
	last := history[len(history)-1]
	return Summary{
		Ticks:          len(history),
		MeanReward:     sum / float64(len(tail)),
		FinalAlignment: last.Alignment,
		FinalState:     last.State,
		RBar:           last.RBar,
		TotalEnergy:    last.TotalEnergy,
		Boundary:       last.Boundary,
	}
}
