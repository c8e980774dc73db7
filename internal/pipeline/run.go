// Package pipeline implements the loan pipeline orchestration engine:
// strictly sequential stage execution with retry and backoff, fixed-interval
// polling of long-running platform operations, declarative blocking-condition
// gating of destructive stages, and a non-destructive correction overlay for
// dry-run reporting.
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/formatting"
)

// RunStatus is the lifecycle status of a pipeline run.
type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
	RunBlocked RunStatus = "blocked"
)

// Terminal reports whether no further status transition can occur.
func (s RunStatus) Terminal() bool {
	return s == RunSuccess || s == RunFailed || s == RunBlocked
}

// StageStatus is the terminal status of one stage within a run.
type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageFailed  StageStatus = "failed"
	// StageSkipped marks stages not executed: downstream of a halting
	// failure, or excluded by a stage filter.
	StageSkipped StageStatus = "skipped"
	// StageBlocked marks destructive stages gated out by blocking issues.
	StageBlocked StageStatus = "blocked"
)

// Run records one pipeline execution for a loan. It is mutated only by the
// orchestrator and immutable once its status is terminal.
type Run struct {
	ID         uuid.UUID       `json:"id"`
	LoanID     string          `json:"loan_id"`
	Mode       Mode            `json:"mode"`
	Status     RunStatus       `json:"status"`
	Stages     []StageResult   `json:"stages"`
	Issues     []BlockingIssue `json:"issues,omitempty"`
	Advisories []BlockingIssue `json:"advisories,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// StageResult records one stage execution within a run. Attempts and
// Elapsed are recorded on success and failure alike; the result is never
// mutated after the stage terminates.
type StageResult struct {
	Stage     string        `json:"stage"`
	Status    StageStatus   `json:"status"`
	Attempts  int           `json:"attempts"`
	Elapsed   time.Duration `json:"elapsed"`
	Output    any           `json:"output,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorKind Kind          `json:"error_kind,omitempty"`
}

// BlockingIssue is a finding that prevents destructive stages from running
// until resolved. Code and Message together carry enough detail to resolve
// the condition and re-run.
type BlockingIssue struct {
	Severity string `json:"severity"`
	Source   string `json:"source"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Summarize renders the run as a terse human-readable report: one header
// line, one line per stage, then blocking issues and advisories.
func (r *Run) Summarize() string {
	var b strings.Builder

	fmt.Fprintf(&b, "run %s loan %s mode=%s status=%s",
		shortID(r.ID), r.LoanID, r.Mode, r.Status)

	for _, s := range r.Stages {
		fmt.Fprintf(&b, "\n  %-14s %-8s", s.Stage, s.Status)
		switch s.Status {
		case StageSuccess, StageFailed:
			fmt.Fprintf(&b, " attempts=%d elapsed=%s",
				s.Attempts, formatting.FormatDuration(s.Elapsed))
		}
		if s.Error != "" {
			fmt.Fprintf(&b, " error=%q", s.Error)
		}
	}

	if len(r.Issues) > 0 {
		b.WriteString("\nblocking issues:")
		for _, i := range r.Issues {
			fmt.Fprintf(&b, "\n  [%s] %s/%s: %s", i.Severity, i.Source, i.Code, i.Message)
		}
	}

	if len(r.Advisories) > 0 {
		b.WriteString("\nadvisories:")
		for _, a := range r.Advisories {
			fmt.Fprintf(&b, "\n  [%s] %s/%s: %s", a.Severity, a.Source, a.Code, a.Message)
		}
	}

	return b.String()
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
