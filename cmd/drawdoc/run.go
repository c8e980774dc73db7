package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/api"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/infrastructure"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

var (
	runLoan   string
	runMode   string
	runStages []string
	runBudget int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the pipeline for a loan and print the run report",
	Long: `Executes the pipeline synchronously and prints the run report.

The exit code reflects the terminal status: 0 success, 1 failed,
2 blocked.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runLoan, "loan", "", "Loan identifier (required)")
	runCmd.Flags().StringVar(&runMode, "mode", "", "Run mode: apply or dry-run (required)")
	runCmd.Flags().StringSliceVar(&runStages, "stages", nil, "Only execute the named stages")
	runCmd.Flags().IntVar(&runBudget, "retry-budget", -1, "Cap per-stage retries; -1 keeps stage defaults")
	runCmd.MarkFlagRequired("loan")
	runCmd.MarkFlagRequired("mode")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	mode, err := pipeline.ParseMode(runMode)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	defer func() {
		if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
			fmt.Fprintln(os.Stderr, "warning: shutdown incomplete:", err)
		}
	}()

	domain, err := api.NewDomain(cfg, api.NewRuntime(cfg, infra))
	if err != nil {
		return err
	}

	params := pipeline.Params{
		LoanID:      runLoan,
		Mode:        mode,
		StageFilter: runStages,
	}
	if runBudget >= 0 {
		params.RetryBudget = &runBudget
	}

	run, err := domain.Runs.Trigger(cmd.Context(), params)
	if run == nil {
		return err
	}
	if err != nil {
		// The run reached a terminal state but part of its history did
		// not persist.
		fmt.Fprintln(os.Stderr, "warning: run history incomplete:", err)
	}

	fmt.Println(run.Summarize())

	switch run.Status {
	case pipeline.RunSuccess:
		exitCode = 0
	case pipeline.RunBlocked:
		exitCode = 2
	default:
		exitCode = 1
	}
	return nil
}
