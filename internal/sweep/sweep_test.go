package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/talgya/predictive-agency/internal/agents"
	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/engine"
	"github.com/talgya/predictive-agency/internal/entropy"
	"github.com/talgya/predictive-agency/internal/scenario"
)

func smallScenario() scenario.Scenario {
	return scenario.Scenario{
		Name: "small",
		Groups: []agents.Group{
			{Type: agents.TypePlatform, Count: 2, TakeRate: 0.2, ServiceLevel: 0.6},
			{Type: agents.TypeDriver, Count: 5, TakeRate: 0.05, ServiceLevel: 0.8},
		},
	}
}

func TestRunMatchesSequential(t *testing.T) {
	jobs := Seeds(smallScenario(), config.Default(), 30, 100, 6)
	results, err := Run(context.Background(), jobs, Options{Parallel: 3, KeepHistory: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results for %d jobs", len(results), len(jobs))
	}

	for i, job := range jobs {
		r := results[i]
		if r.Err != nil {
			t.Fatalf("job %d: %v", i, r.Err)
		}
		if r.Seed != 100+int64(i) {
			t.Errorf("result %d seed = %d", i, r.Seed)
		}

		sim, err := engine.NewSimulation(job.Scenario.Groups, job.Config, entropy.New(job.Config.Seed))
		if err != nil {
			t.Fatal(err)
		}
		for k := 0; k < job.Ticks; k++ {
			sim.Step()
		}
		if diff := cmp.Diff(sim.History(), r.History); diff != "" {
			t.Errorf("job %d differs from a sequential run:\n%s", i, diff)
		}
		if r.Summary.Ticks != 30 {
			t.Errorf("job %d summary ticks = %d", i, r.Summary.Ticks)
		}
	}
}

func TestRunRecordsJobErrors(t *testing.T) {
	bad := config.Default()
	bad.AlphaQ = 0
	jobs := []Job{
		{Scenario: smallScenario(), Config: config.Default(), Ticks: 5},
		{Scenario: smallScenario(), Config: bad, Ticks: 5},
	}
	results, err := Run(context.Background(), jobs, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("good job failed: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, config.ErrInvalidConfig) {
		t.Errorf("bad job error = %v, want ErrInvalidConfig", results[1].Err)
	}
	if results[0].History != nil {
		t.Error("history kept without KeepHistory")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := Seeds(smallScenario(), config.Default(), 10, 1, 2)
	if _, err := Run(ctx, jobs, Options{Parallel: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}

func TestSeeds(t *testing.T) {
	jobs := Seeds(smallScenario(), config.Default(), 10, 7, 3)
	var seeds []int64
	for _, j := range jobs {
		seeds = append(seeds, j.Config.Seed)
	}
	if diff := cmp.Diff([]int64{7, 8, 9}, seeds); diff != "" {
		t.Errorf("seeds mismatch:\n%s", diff)
	}
}
