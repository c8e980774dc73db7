package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

var (
	lintGateRules string
	lintFieldMap  string
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate gate rule and field map files",
	Long: `Parses and validates gate rule and field map documents. Nothing is
read from or written to the loan platform.`,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintGateRules, "gate-rules", "", "Gate rules YAML file")
	lintCmd.Flags().StringVar(&lintFieldMap, "field-map", "", "Field map YAML file")
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintGateRules == "" && lintFieldMap == "" {
		return fmt.Errorf("nothing to lint: pass --gate-rules and/or --field-map")
	}

	if lintGateRules != "" {
		spec, err := pipeline.LoadRules(lintGateRules)
		if err != nil {
			return fmt.Errorf("gate rules: %w", err)
		}
		if _, err := pipeline.NewEvaluator(spec); err != nil {
			return fmt.Errorf("gate rules: %w", err)
		}
		fmt.Printf("gate rules ok: %d rules\n", len(spec.Rules))
	}

	if lintFieldMap != "" {
		fm, err := stages.LoadFieldMap(lintFieldMap)
		if err != nil {
			return fmt.Errorf("field map: %w", err)
		}
		fmt.Printf("field map ok: %d fields\n", len(fm.Fields))
	}

	return nil
}
