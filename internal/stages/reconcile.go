package stages

import (
	"context"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// ReconcileOutput reports the corrections produced by comparing extracted
// values against the system of record, plus the authoritative snapshot the
// comparison ran against.
type ReconcileOutput struct {
	Corrections   []pipeline.Correction `json:"corrections"`
	Authoritative map[string]string     `json:"authoritative"`
	Applied       int                   `json:"applied"`
	Proposed      int                   `json:"proposed"`
	Failed        int                   `json:"failed"`
}

// Reconcile builds the stage that diffs extracted field values against the
// authoritative snapshot. In apply mode it writes the differing values back
// and records the per-field outcome; in dry-run mode every correction stays
// proposed. This is the only stage that mutates loan fields.
func Reconcile(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:        StageReconcile,
		OnFailure:   pipeline.ContinueOnFailure,
		Destructive: true,
		Retry:       d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			prep, err := pipeline.Output[PrepareOutput](req.Outputs, StagePrepare)
			if err != nil {
				return nil, err
			}
			ext, err := pipeline.Output[ExtractOutput](req.Outputs, StageExtract)
			if err != nil {
				return nil, err
			}

			authoritative := prep.Loan.Fields
			var corrections []pipeline.Correction
			for _, id := range d.FieldMap.IDs() {
				extracted, ok := ext.Fields[id]
				if !ok || extracted == "" {
					continue
				}
				current := authoritative[id]
				if extracted == current {
					continue
				}
				corrections = append(corrections, pipeline.Correction{
					Field:         id,
					Proposed:      extracted,
					Authoritative: current,
					Reason:        "document value differs from system of record",
				})
			}

			if req.Mode.Destructive() && len(corrections) > 0 {
				if err := applyCorrections(ctx, d, req.LoanID, corrections); err != nil {
					return nil, err
				}
			}

			out := ReconcileOutput{Corrections: corrections, Authoritative: authoritative}
			for _, c := range corrections {
				switch {
				case c.Applied:
					out.Applied++
				case req.Mode.Destructive():
					out.Failed++
				default:
					out.Proposed++
				}
			}
			return out, nil
		},
	}
}

func applyCorrections(ctx context.Context, d *Deps, loanID string, corrections []pipeline.Correction) error {
	updates := make(map[string]string, len(corrections))
	for _, c := range corrections {
		platformID, ok := d.FieldMap.PlatformID(c.Field)
		if !ok {
			continue
		}
		updates[platformID] = c.Proposed
	}
	results, err := d.Fields.WriteFields(ctx, loanID, updates)
	if err != nil {
		return err
	}
	for i := range corrections {
		platformID, ok := d.FieldMap.PlatformID(corrections[i].Field)
		if !ok {
			corrections[i].Reason = "field has no platform mapping"
			continue
		}
		res, ok := results[platformID]
		switch {
		case ok && res.Success:
			corrections[i].Applied = true
		case ok:
			corrections[i].Reason = "write rejected: " + res.Error
		default:
			corrections[i].Reason = "write outcome missing from response"
		}
	}
	return nil
}
