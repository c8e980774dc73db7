package stages

import (
	"context"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// LoanSnapshot carries the authoritative field values read at run start,
// keyed by pipeline field identifier and normalized for comparison.
type LoanSnapshot struct {
	LoanID string            `json:"loan_id"`
	Fields map[string]string `json:"fields"`
}

// PrepareOutput is the loan snapshot and document inventory every
// downstream stage starts from.
type PrepareOutput struct {
	Loan      LoanSnapshot `json:"loan"`
	Documents []Document   `json:"documents"`
}

// Prepare builds the stage that loads the authoritative loan snapshot and
// the intake document inventory. A loan without intake documents cannot
// proceed.
func Prepare(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:      StagePrepare,
		OnFailure: pipeline.HaltOnFailure,
		Retry:     d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			raw, err := d.Fields.ReadFields(ctx, req.LoanID, d.FieldMap.PlatformIDs())
			if err != nil {
				return nil, err
			}
			fields := make(map[string]string, len(raw))
			for platformID, value := range raw {
				id, ok := d.FieldMap.IDFor(platformID)
				if !ok {
					continue
				}
				fields[id] = d.FieldMap.Normalize(id, value)
			}
			docs, err := d.Documents.Documents(ctx, req.LoanID)
			if err != nil {
				return nil, err
			}
			if len(docs) == 0 {
				return nil, pipeline.Preconditionf("loan %s has no intake documents", req.LoanID)
			}
			return PrepareOutput{
				Loan:      LoanSnapshot{LoanID: req.LoanID, Fields: fields},
				Documents: docs,
			}, nil
		},
	}
}
