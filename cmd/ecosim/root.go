package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/predictive-agency/internal/config"
	"github.com/talgya/predictive-agency/internal/scenario"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel string
}

var rootCmd = &cobra.Command{
	Use:   "ecosim",
	Short: "Multi-agent ecosystem simulation with average-reward learning",
	Long: "ecosim runs platform, driver, regulator and investor agents that learn\n" +
		"extraction, service and openness policies over a shared resource economy,\n" +
		"scoring every tick under three externality boundaries.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := parseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// runSetup is shared by commands that build simulations.
type runSetup struct {
	scenario   string
	configPath string
	seed       int64
	ticks      int
}

func (s *runSetup) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.scenario, "scenario", "token-rideshare", "Preset name or scenario YAML path")
	f.StringVar(&s.configPath, "config", "", "Tuning YAML path (defaults when empty)")
	f.Int64Var(&s.seed, "seed", 0, "Random seed (overrides config)")
	f.IntVar(&s.ticks, "ticks", 0, "Ticks to run (overrides config)")
}

// resolve loads the scenario and config, applying flag overrides.
func (s *runSetup) resolve(cmd *cobra.Command) (scenario.Scenario, config.Config, error) {
	sc, err := scenario.Resolve(s.scenario)
	if err != nil {
		return sc, config.Config{}, err
	}

	cfg := config.Default()
	if s.configPath != "" {
		if cfg, err = config.Load(s.configPath); err != nil {
			return sc, cfg, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = s.seed
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = s.ticks
	}
	if err := cfg.Validate(); err != nil {
		return sc, cfg, err
	}
	return sc, cfg, nil
}

func expansionSet(ticks []int) map[int]bool {
	if len(ticks) == 0 {
		return nil
	}
	set := make(map[int]bool, len(ticks))
	for _, t := range ticks {
		set[t] = true
	}
	return set
}
