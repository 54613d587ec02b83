package engine

import (
	"context"
	"log/slog"
	"time"
)

// DefaultReportEvery is the tick cadence of the periodic report callback.
const DefaultReportEvery = 100

// Engine drives a simulation forward. The simulation itself has no notion
// of time or cancellation; pacing and stopping live here.
type Engine struct {
	Sim         *Simulation
	Interval    time.Duration // Base tick interval; 0 runs as fast as possible
	Speed       float64       // Multiplier: 1.0 = one tick per Interval
	ReportEvery int           // Ticks between OnReport calls

	// Callbacks, populated during setup.
	OnTick   func(entry HistoryEntry) // Every tick, after the entry is recorded
	OnReport func(tick int)           // Every ReportEvery ticks

	// Expansions maps a tick to a boundary expansion applied before that
	// tick's step.
	Expansions map[int]bool
}

// NewEngine creates an engine that runs sim unpaced.
func NewEngine(sim *Simulation) *Engine {
	return &Engine{
		Sim:         sim,
		Speed:       1.0,
		ReportEvery: DefaultReportEvery,
	}
}

// Run steps the simulation ticks times, or until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, ticks int) error {
	slog.Info("simulation engine started", "tick", e.Sim.Tick(), "ticks", ticks, "agents", len(e.Sim.Agents()))

	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			slog.Info("simulation engine stopped", "tick", e.Sim.Tick(), "reason", err)
			return err
		}

		start := time.Now()
		e.step()

		if e.Interval > 0 && e.Speed > 0 {
			// Sleep for the remainder of the tick interval, adjusted for speed.
			target := time.Duration(float64(e.Interval) / e.Speed)
			if elapsed := time.Since(start); elapsed < target {
				select {
				case <-ctx.Done():
				case <-time.After(target - elapsed):
				}
			}
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Sim.Tick())
	return nil
}

func (e *Engine) step() {
	if e.Expansions[e.Sim.Tick()] {
		e.Sim.ExpandBoundary()
	}

	e.Sim.Step()
	tick := e.Sim.Tick()

	if e.OnTick != nil {
		e.OnTick(e.Sim.history[len(e.Sim.history)-1])
	}
	if e.ReportEvery > 0 && tick%e.ReportEvery == 0 && e.OnReport != nil {
		e.OnReport(tick)
	}
}

// LogReport is an OnReport callback that logs the recent state of sim.
func LogReport(sim *Simulation, window int) func(tick int) {
	return func(tick int) {
		sum := sim.Summary(window)
		st := sum.FinalState
		slog.Info("report",
			"tick", tick,
			"boundary", sum.Boundary.String(),
			"mean_reward", sum.MeanReward,
			"r_bar", sum.RBar,
			"alignment", sum.FinalAlignment,
			"surplus", st.Surplus,
			"trust", st.Trust,
			"safety", st.Safety,
			"congestion", st.Congestion,
			"total_energy", sum.TotalEnergy,
		)
	}
}
