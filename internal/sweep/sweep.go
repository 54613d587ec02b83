// Package sweep runs many independent simulations concurrently, one per
// (scenario, seed) job. Each simulation stays single-threaded; only whole
// runs are parallelized.
package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/engine"
	"github.com/talgya/predictive-agency/internal/entropy"
	"github.com/talgya/predictive-agency/internal/scenario"
)

// Job describes one run.
type Job struct {
	Scenario   scenario.Scenario
	Config     config.Config // Config.Seed selects the random stream
	Ticks      int
	Expansions map[int]bool // boundary expansions keyed by tick
}

// Result is the outcome of one job.
type Result struct {
	Scenario string
	Seed     int64
	Summary  engine.Summary
	History  []engine.HistoryEntry // nil unless KeepHistory
	Err      error
}

// Options tune a sweep.
type Options struct {
	Parallel     int  // max concurrent runs; <= 0 means unlimited
	SummaryTicks int  // window for Summary; <= 0 summarizes the whole run
	KeepHistory  bool // retain full histories in results
}

// Seeds builds one job per seed in [from, from+count) for a scenario.
func Seeds(sc scenario.Scenario, cfg config.Config, ticks int, from int64, count int) []Job {
	jobs := make([]Job, 0, count)
	for i := 0; i < count; i++ {
		c := cfg
		c.Seed = from + int64(i)
		jobs = append(jobs, Job{Scenario: sc, Config: c, Ticks: ticks})
	}
	return jobs
}

// Run executes jobs and returns results in job order. A failing job records
// its error in its Result; Run itself only fails if ctx is cancelled.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i] = runOne(gctx, job, opts)
			return nil
		})
	}
	_ = g.Wait() // errors captured in Result.Err

	if err := ctx.Err(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			slog.Error("sweep job failed", "scenario", r.Scenario, "seed", r.Seed, "error", r.Err)
		}
	}
	slog.Info("sweep finished", "jobs", len(jobs), "failed", failed)
	return results, nil
}

func runOne(ctx context.Context, job Job, opts Options) Result {
	res := Result{Scenario: job.Scenario.Name, Seed: job.Config.Seed}

	sim, err := engine.NewSimulation(job.Scenario.Groups, job.Config, entropy.New(job.Config.Seed))
	if err != nil {
		res.Err = fmt.Errorf("scenario %s seed %d: %w", job.Scenario.Name, job.Config.Seed, err)
		return res
	}

	eng := engine.NewEngine(sim)
	eng.ReportEvery = 0
	eng.Expansions = job.Expansions
	if err := eng.Run(ctx, job.Ticks); err != nil {
		res.Err = err
		return res
	}

	res.Summary = sim.Summary(opts.SummaryTicks)
	if opts.KeepHistory {
		res.History = sim.History()
	}
	return res
}
