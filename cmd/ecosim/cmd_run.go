package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/predictive-agency/internal/agents"
	"github.com/talgya/predictive-agency/internal/engine"
	"github.com/talgya/predictive-agency/internal/entropy"
	"github.com/talgya/predictive-agency/internal/persistence"
)

var runFlags struct {
	setup       runSetup
	expandAt    []int
	dbPath      string
	reportEvery int
	interval    time.Duration
	top         int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print its summary",
	RunE:  runRun,
}

func init() {
	runFlags.setup.bind(runCmd)
	f := runCmd.Flags()
	f.IntSliceVar(&runFlags.expandAt, "expand-at", nil, "Ticks at which the boundary expands (B0→B1→B2)")
	f.StringVar(&runFlags.dbPath, "db", "", "SQLite path to store the run (not stored when empty)")
	f.IntVar(&runFlags.reportEvery, "report-every", engine.DefaultReportEvery, "Ticks between progress reports (0 disables)")
	f.DurationVar(&runFlags.interval, "interval", 0, "Wall-clock pacing per tick")
	f.IntVar(&runFlags.top, "top", 5, "Agents to list by power")
}

func runRun(cmd *cobra.Command, _ []string) error {
	sc, cfg, err := runFlags.setup.resolve(cmd)
	if err != nil {
		return err
	}

	sim, err := engine.NewSimulation(sc.Groups, cfg, entropy.New(cfg.Seed))
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}
	slog.Info("simulation ready",
		"scenario", sc.Name,
		"agents", humanize.Comma(int64(len(sim.Agents()))),
		"seed", sim.Seed(),
		"ticks", humanize.Comma(int64(cfg.Ticks)),
	)

	eng := engine.NewEngine(sim)
	eng.Interval = runFlags.interval
	eng.ReportEvery = runFlags.reportEvery
	eng.OnReport = engine.LogReport(sim, runFlags.reportEvery)
	eng.Expansions = expansionSet(runFlags.expandAt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := eng.Run(ctx, cfg.Ticks)
	if runErr != nil {
		slog.Warn("run interrupted", "tick", sim.Tick(), "error", runErr)
	}

	if runFlags.dbPath != "" {
		db, err := persistence.Open(runFlags.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id := persistence.NewRunID()
		if err := db.SaveSimulation(id, sc.Name, sim); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run:        %s\n", id)
	}

	printSummary(cmd, sc.Name, sim)
	return nil
}

func printSummary(cmd *cobra.Command, name string, sim *engine.Simulation) {
	out := cmd.OutOrStdout()
	sum := sim.Summary(0)
	st := sum.FinalState

	fmt.Fprintf(out, "Scenario:   %s\n", name)
	fmt.Fprintf(out, "Ticks:      %s\n", humanize.Comma(int64(sum.Ticks)))
	fmt.Fprintf(out, "Boundary:   %s\n", sum.Boundary)
	fmt.Fprintf(out, "r̄:          %.4f\n", sum.RBar)
	fmt.Fprintf(out, "Mean reward %.4f, final alignment %.4f\n", sum.MeanReward, sum.FinalAlignment)
	fmt.Fprintf(out, "State:      surplus %.2f trust %.2f safety %.2f capacity %.2f congestion %.2f demand %.2f\n",
		st.Surplus, st.Trust, st.Safety, st.Capacity, st.Congestion, st.Demand)
	fmt.Fprintf(out, "Energy:     %s total\n", humanize.CommafWithDigits(sum.TotalEnergy, 1))

	roster := append([]*agents.Agent(nil), sim.Agents()...)
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].Power > roster[j].Power })
	n := runFlags.top
	if n > len(roster) {
		n = len(roster)
	}
	if n > 0 {
		fmt.Fprintf(out, "Top agents by power:\n")
	}
	for _, a := range roster[:n] {
		fmt.Fprintf(out, "  #%-4d %-9s power %8.4f  agency %8.4f  contribution %8.4f  energy %6.2f\n",
			a.ID, a.Type, a.Power, a.Agency, a.Contribution, a.Energy())
	}
}
