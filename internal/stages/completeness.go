package stages

import (
	"context"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// CompletenessOutput reports required fields still empty after laying the
// pending corrections over the authoritative snapshot.
type CompletenessOutput struct {
	Complete bool     `json:"complete"`
	Checked  int      `json:"checked"`
	Missing  []string `json:"missing,omitempty"`
}

// Completeness builds the reporting-only stage that checks required loan
// fields against the reconciled view. It reads the snapshot through the
// correction overlay, so dry-run and apply reach the same verdict.
func Completeness(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:      StageCompleteness,
		OnFailure: pipeline.ContinueOnFailure,
		Retry:     d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			rec, err := pipeline.Output[ReconcileOutput](req.Outputs, StageReconcile)
			if err != nil {
				return nil, err
			}
			view := pipeline.Reconcile(rec.Authoritative, rec.Corrections)
			required := d.FieldMap.Required()
			var missing []string
			for _, id := range required {
				if view[id] == "" {
					missing = append(missing, id)
				}
			}
			return CompletenessOutput{
				Complete: len(missing) == 0,
				Checked:  len(required),
				Missing:  missing,
			}, nil
		},
	}
}
