package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/predictive-agency/internal/sweep"
)

var sweepFlags struct {
	setup    runSetup
	seeds    int
	parallel int
	window   int
	expandAt []int
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one scenario over a range of seeds in parallel",
	RunE:  runSweep,
}

func init() {
	sweepFlags.setup.bind(sweepCmd)
	f := sweepCmd.Flags()
	f.IntVar(&sweepFlags.seeds, "seeds", 8, "Number of consecutive seeds starting at --seed")
	f.IntVar(&sweepFlags.parallel, "parallel", 4, "Max concurrent runs")
	f.IntVar(&sweepFlags.window, "window", 100, "Trailing ticks averaged into each summary")
	f.IntSliceVar(&sweepFlags.expandAt, "expand-at", nil, "Ticks at which the boundary expands")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	sc, cfg, err := sweepFlags.setup.resolve(cmd)
	if err != nil {
		return err
	}

	jobs := sweep.Seeds(sc, cfg, cfg.Ticks, cfg.Seed, sweepFlags.seeds)
	expansions := expansionSet(sweepFlags.expandAt)
	for i := range jobs {
		jobs[i].Expansions = expansions
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := sweep.Run(ctx, jobs, sweep.Options{
		Parallel:     sweepFlags.parallel,
		SummaryTicks: sweepFlags.window,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scenario %s, %s ticks per run\n", sc.Name, humanize.Comma(int64(cfg.Ticks)))
	fmt.Fprintf(out, "%-8s %12s %12s %10s %10s\n", "seed", "mean reward", "alignment", "surplus", "trust")

	ok, total := 0, 0.0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "%-8d error: %v\n", r.Seed, r.Err)
			continue
		}
		s := r.Summary
		fmt.Fprintf(out, "%-8d %12.4f %12.4f %10.2f %10.2f\n",
			r.Seed, s.MeanReward, s.FinalAlignment, s.FinalState.Surplus, s.FinalState.Trust)
		ok++
		total += s.MeanReward
	}
	if ok > 0 {
		fmt.Fprintf(out, "mean over %d runs: %.4f\n", ok, total/float64(ok))
	}
	return nil
}
