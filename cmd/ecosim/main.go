// Command ecosim runs the predictive-agency ecosystem simulation.
//
// Usage:
//
//	ecosim run [--scenario=<preset|path>] [--config=<path>] [--seed=N] [--ticks=N] [--expand-at=T1,T2] [--db=<path>]
//	ecosim sweep [--scenario=<preset|path>] [--seeds=N] [--parallel=N]
//	ecosim scenarios
//	ecosim history --db=<path> [--run=<id>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
