// drawdoc is the operator CLI: it runs the pipeline for a loan from the
// command line and validates configuration artifacts without touching the
// loan platform.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCode carries the terminal run status out of the run command so
// deferred cleanup still executes before the process exits.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "drawdoc",
	Short: "Closing document pipeline for construction loans",
	Long: `drawdoc orchestrates the closing document pipeline: field reads,
document inventory, extraction, reconciliation, compliance checks, and
the destructive order and delivery stages.

Examples:
  drawdoc run --loan LN-2024-001 --mode dry-run
  drawdoc run --loan LN-2024-001 --mode apply --stages extract,reconcile
  drawdoc lint --gate-rules gate.yaml --field-map fields.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(lintCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
