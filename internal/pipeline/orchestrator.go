package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Ledger receives run lifecycle events as they occur. Implementations
// append to durable run history; the engine never reads events back.
type Ledger interface {
	RunStarted(ctx context.Context, run *Run) error
	StageRecorded(ctx context.Context, run *Run, result *StageResult) error
	RunCompleted(ctx context.Context, run *Run) error
}

// NopLedger discards all events.
type NopLedger struct{}

func (NopLedger) RunStarted(context.Context, *Run) error                 { return nil }
func (NopLedger) StageRecorded(context.Context, *Run, *StageResult) error { return nil }
func (NopLedger) RunCompleted(context.Context, *Run) error               { return nil }

// Params configures one pipeline run. RetryBudget, when set, caps every
// stage's retry count. StageFilter, when non-empty, names the only stages
// that execute; everything else is recorded skipped. A filter that
// excludes gate-source stages bypasses their blocking evaluation, so the
// filter is trusted operator input.
type Params struct {
	LoanID      string   `json:"loan_id"`
	Mode        Mode     `json:"mode"`
	RetryBudget *int     `json:"retry_budget,omitempty"`
	StageFilter []string `json:"stage_filter,omitempty"`
}

// Validate checks that the params are complete. Mode is required: runs
// never assume a default.
func (p *Params) Validate() error {
	if p.LoanID == "" {
		return errors.New("missing loan id")
	}
	if _, err := ParseMode(string(p.Mode)); err != nil {
		return err
	}
	if p.RetryBudget != nil && *p.RetryBudget < 0 {
		return errors.New("negative retry budget")
	}
	return nil
}

// Orchestrator sequences the stages of a single run and applies the
// failure-propagation and gating rules between them. One orchestrator
// instance drives one run at a time; concurrent runs for different loans
// use independent instances sharing nothing but the ledger.
type Orchestrator struct {
	executor *Executor
	gate     *Evaluator
	ledger   Ledger
	logger   *slog.Logger
	now      func() time.Time
}

// NewOrchestrator wires an orchestrator. A nil ledger discards events.
func NewOrchestrator(executor *Executor, gate *Evaluator, ledger Ledger, logger *slog.Logger) *Orchestrator {
	if ledger == nil {
		ledger = NopLedger{}
	}
	return &Orchestrator{
		executor: executor,
		gate:     gate,
		ledger:   ledger,
		logger:   logger.With("system", "orchestrator"),
		now:      time.Now,
	}
}

// Execute runs the pipeline for one loan and returns the terminal run.
// Stages execute strictly in order. A halt-on-failure failure marks every
// remaining stage skipped; a continue-on-failure failure is remembered for
// the terminal status. Destructive stages execute only while the blocking
// issue list is empty and are recorded blocked otherwise. The returned
// error reports ledger append failures; once started, the run itself is
// always driven to a terminal status.
func (o *Orchestrator) Execute(ctx context.Context, stages []Stage, params Params) (*Run, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.New(),
		LoanID:    params.LoanID,
		Mode:      params.Mode,
		Status:    RunRunning,
		CreatedAt: o.now().UTC(),
	}
	run.UpdatedAt = run.CreatedAt

	if err := o.ledger.RunStarted(ctx, run); err != nil {
		return nil, fmt.Errorf("record run start: %w", err)
	}

	o.logger.Info("run started",
		"run_id", run.ID,
		"loan_id", run.LoanID,
		"mode", run.Mode,
		"stages", len(stages),
	)

	var (
		ledgerErrs []error
		outputs    = Outputs{}
		halted     bool
		failed     bool
	)

	for _, stage := range stages {
		var result StageResult

		switch {
		case halted:
			result = StageResult{Stage: stage.Name, Status: StageSkipped}
		case !selected(params.StageFilter, stage.Name):
			result = StageResult{Stage: stage.Name, Status: StageSkipped}
		case stage.Destructive && len(run.Issues) > 0:
			result = StageResult{Stage: stage.Name, Status: StageBlocked}
			o.logger.Warn("stage gated by blocking issues",
				"run_id", run.ID,
				"stage", stage.Name,
				"issues", len(run.Issues),
			)
		default:
			result = o.runStage(ctx, run, stage, params, outputs)
			if result.Status == StageFailed {
				failed = true
				if stage.OnFailure == HaltOnFailure {
					halted = true
				}
			}
		}

		run.Stages = append(run.Stages, result)
		run.UpdatedAt = o.now().UTC()

		if err := o.ledger.StageRecorded(ctx, run, &result); err != nil {
			ledgerErrs = append(ledgerErrs, fmt.Errorf("record stage %s: %w", stage.Name, err))
		}
	}

	run.Status = terminalStatus(run, failed)
	run.Summary = run.Summarize()
	run.UpdatedAt = o.now().UTC()

	if err := o.ledger.RunCompleted(ctx, run); err != nil {
		ledgerErrs = append(ledgerErrs, fmt.Errorf("record run completion: %w", err))
	}

	o.logger.Info("run completed",
		"run_id", run.ID,
		"status", run.Status,
		"stages", len(run.Stages),
		"issues", len(run.Issues),
	)

	return run, errors.Join(ledgerErrs...)
}

// runStage executes one stage body through the executor and folds its
// findings, if any, through the gate.
func (o *Orchestrator) runStage(ctx context.Context, run *Run, stage Stage, params Params, outputs Outputs) StageResult {
	if params.RetryBudget != nil && stage.Retry.MaxRetries > *params.RetryBudget {
		stage.Retry.MaxRetries = *params.RetryBudget
	}

	req := &Request{
		LoanID:  run.LoanID,
		Mode:    run.Mode,
		Outputs: outputs.clone(),
	}

	o.logger.Info("stage started", "run_id", run.ID, "stage", stage.Name)
	outcome := o.executor.Execute(ctx, stage, req)

	result := StageResult{
		Stage:    stage.Name,
		Attempts: outcome.Attempts,
		Elapsed:  outcome.Elapsed,
	}

	if outcome.Err != nil {
		result.Status = StageFailed
		result.Error = outcome.Err.Error()
		result.ErrorKind = KindOf(outcome.Err)
		o.logger.Error("stage failed",
			"run_id", run.ID,
			"stage", stage.Name,
			"attempts", outcome.Attempts,
			"kind", result.ErrorKind,
			"error", outcome.Err,
		)
		return result
	}

	result.Status = StageSuccess
	result.Output = outcome.Output
	outputs[stage.Name] = outcome.Output

	if reporter, ok := outcome.Output.(FindingReporter); ok && o.gate != nil {
		decision := o.gate.Evaluate(stage.Name, reporter.Findings())
		run.Issues = append(run.Issues, decision.Issues...)
		run.Advisories = append(run.Advisories, decision.Advisories...)
		if decision.Blocked() {
			o.logger.Warn("blocking issues raised",
				"run_id", run.ID,
				"stage", stage.Name,
				"count", len(decision.Issues),
			)
		}
	}

	o.logger.Info("stage completed",
		"run_id", run.ID,
		"stage", stage.Name,
		"attempts", outcome.Attempts,
		"elapsed", outcome.Elapsed,
	)
	return result
}

// terminalStatus computes the final run status: blocking issues dominate,
// then any stage failure, then success.
func terminalStatus(run *Run, failed bool) RunStatus {
	switch {
	case len(run.Issues) > 0:
		return RunBlocked
	case failed:
		return RunFailed
	default:
		return RunSuccess
	}
}

func selected(filter []string, name string) bool {
	return len(filter) == 0 || slices.Contains(filter, name)
}
