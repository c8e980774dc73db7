package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// ComplianceOutput carries the raw compliance scan findings into gate
// evaluation.
type ComplianceOutput struct {
	Items []pipeline.Finding `json:"findings"`
}

// Findings reports the scan results for gate evaluation.
func (o ComplianceOutput) Findings() []pipeline.Finding { return o.Items }

// Compliance builds the stage that runs the platform compliance scan and
// surfaces its findings unchanged.
func Compliance(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:      StageCompliance,
		OnFailure: pipeline.HaltOnFailure,
		Retry:     d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			findings, err := d.Compliance.RunCheck(ctx, req.LoanID)
			if err != nil {
				return nil, err
			}
			return ComplianceOutput{Items: findings}, nil
		},
	}
}

// QMOutput carries the qualified-mortgage flags as gate findings.
type QMOutput struct {
	Flags []QMFlag `json:"flags"`
}

// Findings converts flag colors into gate findings, one per flag.
func (o QMOutput) Findings() []pipeline.Finding {
	findings := make([]pipeline.Finding, 0, len(o.Flags))
	for _, f := range o.Flags {
		findings = append(findings, pipeline.Finding{
			Severity: f.Color,
			Code:     f.Name,
			Detail:   fmt.Sprintf("qualified-mortgage flag %s is %s", f.Name, strings.ToUpper(f.Color)),
		})
	}
	return findings
}

// QualifiedMortgage builds the stage that reads the loan's QM flags. Red
// flags block downstream destructive work; yellow flags surface as
// advisories.
func QualifiedMortgage(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:      StageQM,
		OnFailure: pipeline.HaltOnFailure,
		Retry:     d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			flags, err := d.Compliance.QMFlags(ctx, req.LoanID)
			if err != nil {
				return nil, err
			}
			return QMOutput{Flags: flags}, nil
		},
	}
}
