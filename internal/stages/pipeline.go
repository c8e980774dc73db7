// Package stages provides the stage bodies for the standard draw document
// pipeline. Each stage is a thin, deterministic wrapper over the external
// provider boundaries; sequencing, retry, gating, and recording belong to
// the pipeline engine.
package stages

import (
	"time"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// Stage names in execution order.
const (
	StagePrepare      = "prepare"
	StageExtract      = "extract"
	StageReconcile    = "reconcile"
	StageCompleteness = "completeness"
	StageCompliance   = "compliance"
	StageQM           = "qm"
	StageAudit        = "audit"
	StageOrder        = "order"
	StageDeliver      = "deliver"
)

// Deps bundles the collaborators and tuning shared by the stage bodies.
type Deps struct {
	Fields     FieldService
	Documents  DocumentSource
	Extractor  Extractor
	Compliance ComplianceService
	Operations OperationService
	Poller     *pipeline.Poller
	FieldMap   *FieldMap

	// Retry applies to every retryable stage; zero values fall back to
	// two retries at 500ms base delay.
	Retry pipeline.RetryPolicy

	// ExtractWorkers bounds concurrent document extraction (default 4).
	ExtractWorkers int

	// Poll carries per-operation-kind budgets; missing kinds fall back
	// to defaults.
	Poll map[string]pipeline.PollPolicy
}

func (d *Deps) retry() pipeline.RetryPolicy {
	r := d.Retry
	if r.MaxRetries == 0 {
		r.MaxRetries = 2
	}
	if r.BaseDelay == 0 {
		r.BaseDelay = 500 * time.Millisecond
	}
	return r
}

func (d *Deps) workers() int {
	if d.ExtractWorkers > 0 {
		return d.ExtractWorkers
	}
	return 4
}

func (d *Deps) poll(kind string) pipeline.PollPolicy {
	if p, ok := d.Poll[kind]; ok && p.MaxChecks > 0 {
		return p
	}
	switch kind {
	case OpAudit:
		return pipeline.PollPolicy{Interval: 5 * time.Second, MaxChecks: 60}
	default:
		return pipeline.PollPolicy{Interval: 10 * time.Second, MaxChecks: 90}
	}
}

// Default returns the standard draw document pipeline in execution order.
func Default(d *Deps) []pipeline.Stage {
	return []pipeline.Stage{
		Prepare(d),
		Extract(d),
		Reconcile(d),
		Completeness(d),
		Compliance(d),
		QualifiedMortgage(d),
		Audit(d),
		Order(d),
		Deliver(d),
	}
}
