package stages

import (
	"context"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// AuditItem is one finding from the platform audit.
type AuditItem struct {
	Code     string `json:"code"`
	Detail   string `json:"detail"`
	Resolved bool   `json:"resolved"`
}

// AuditOutput carries the terminal audit result. Unresolved items surface
// as blocking findings; resolved items pass through for the record.
type AuditOutput struct {
	OperationID string      `json:"operation_id"`
	Items       []AuditItem `json:"items"`
}

// Findings reports each audit item with a resolved or unresolved severity.
func (o AuditOutput) Findings() []pipeline.Finding {
	findings := make([]pipeline.Finding, 0, len(o.Items))
	for _, item := range o.Items {
		severity := "unresolved"
		if item.Resolved {
			severity = "resolved"
		}
		findings = append(findings, pipeline.Finding{
			Severity: severity,
			Code:     item.Code,
			Detail:   item.Detail,
		})
	}
	return findings
}

// Audit builds the stage that starts a platform audit operation and polls
// it to completion. The audit itself is read-only analysis, so the stage
// stays retryable.
func Audit(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:      StageAudit,
		OnFailure: pipeline.HaltOnFailure,
		Retry:     d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			id, err := d.Operations.CreateOperation(ctx, req.LoanID, OpAudit, nil)
			if err != nil {
				return nil, err
			}
			op, err := d.Poller.Await(ctx, id, d.poll(OpAudit), d.Operations.OperationStatus)
			if err != nil {
				return nil, err
			}
			items, err := auditItems(op)
			if err != nil {
				return nil, err
			}
			return AuditOutput{OperationID: id, Items: items}, nil
		},
	}
}

func auditItems(op *pipeline.Operation) ([]AuditItem, error) {
	if op.Payload == nil {
		return nil, nil
	}
	items, ok := op.Payload.([]AuditItem)
	if !ok {
		return nil, pipeline.Preconditionf("operation %s: unexpected audit payload %T", op.ID, op.Payload)
	}
	return items, nil
}
