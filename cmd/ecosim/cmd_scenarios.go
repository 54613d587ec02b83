package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/predictive-agency/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in scenario presets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, name := range scenario.Names() {
			sc, err := scenario.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s (%s agents)\n", sc.Name, sc.Title, humanize.Comma(int64(sc.Population())))
			for _, g := range sc.Groups {
				fmt.Fprintf(out, "  %-9s x%-4d take %.2f service %.2f\n", g.Type, g.Count, g.TakeRate, g.ServiceLevel)
			}
		}
		return nil
	},
}
