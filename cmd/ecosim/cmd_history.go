package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/predictive-agency/internal/persistence"
)

var historyFlags struct {
	dbPath string
	runID  string
	tail   int
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored runs, or print the history of one run",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.dbPath, "db", "", "SQLite path (required)")
	f.StringVar(&historyFlags.runID, "run", "", "Run ID to print (lists runs when empty)")
	f.IntVar(&historyFlags.tail, "tail", 20, "Last N ticks to print")
	f.IntVar(&historyFlags.limit, "limit", 20, "Runs to list")

	_ = historyCmd.MarkFlagRequired("db")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	db, err := persistence.Open(historyFlags.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	out := cmd.OutOrStdout()

	if historyFlags.runID == "" {
		runs, err := db.ListRuns(historyFlags.limit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No stored runs.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(out, "%s  %-16s seed %-6d %s ticks  %s\n",
				r.ID, r.Scenario, r.Seed, humanize.Comma(int64(r.Ticks)), humanize.Time(r.Created()))
		}
		return nil
	}

	history, err := db.LoadHistory(historyFlags.runID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("run %s has no history", historyFlags.runID)
	}
	if n := historyFlags.tail; n > 0 && len(history) > n {
		history = history[len(history)-n:]
	}

	fmt.Fprintf(out, "%6s %3s %10s %10s %10s %8s %8s %8s %10s\n",
		"tick", "bnd", "r̄", "reward", "alignment", "surplus", "trust", "safety", "agency")
	for _, h := range history {
		fmt.Fprintf(out, "%6d %3s %10.4f %10.4f %10.4f %8.2f %8.2f %8.2f %10.4f\n",
			h.Tick, h.Boundary, h.RBar, h.Reward, h.Alignment,
			h.State.Surplus, h.State.Trust, h.State.Safety, h.AvgAgency)
	}
	return nil
}
