package pipeline

import "strings"

// Finding is a normalized condition reported by a gate-source stage, such
// as one compliance scan result, one qualified-mortgage flag, or one
// unresolved audit item.
type Finding struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

// FindingReporter is implemented by stage outputs that surface findings
// for blocking-condition evaluation. The orchestrator evaluates findings
// the moment the producing stage completes.
type FindingReporter interface {
	Findings() []Finding
}

// Decision is the gate outcome for one stage's findings. Issues block
// destructive stages; advisories are reported only.
type Decision struct {
	Issues     []BlockingIssue `json:"issues"`
	Advisories []BlockingIssue `json:"advisories,omitempty"`
}

// Blocked reports whether the decision carries any blocking issue.
func (d Decision) Blocked() bool { return len(d.Issues) > 0 }

// Evaluator maps stage findings to gate decisions through a declarative
// rule table. It is a gate, not an action: it never mutates remote state
// and never decides retries.
type Evaluator struct {
	rules         []compiledRule
	defaultEffect Effect
}

type compiledRule struct {
	id            string
	source        string
	severities    map[string]struct{}
	effect        Effect
	issueSeverity string
}

// NewEvaluator compiles a validated rule table. Findings that match no
// rule take the table's default effect, which is block unless the rule
// file overrides it. Unrecognized conditions fail closed.
func NewEvaluator(spec *RuleSpec) (*Evaluator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	def := spec.DefaultEffect
	if def == "" {
		def = EffectBlock
	}

	ev := &Evaluator{defaultEffect: def}
	for _, r := range spec.Rules {
		cr := compiledRule{
			id:            r.ID,
			source:        strings.ToLower(r.Source),
			severities:    make(map[string]struct{}, len(r.Severities)),
			effect:        r.Effect,
			issueSeverity: strings.ToLower(r.IssueSeverity),
		}
		for _, sev := range r.Severities {
			cr.severities[strings.ToLower(sev)] = struct{}{}
		}
		ev.rules = append(ev.rules, cr)
	}
	return ev, nil
}

// Evaluate applies the rule table to the findings of one source stage.
// Pure: identical inputs always yield an identical decision, and no
// finding is silently dropped unless a rule passes it explicitly.
func (e *Evaluator) Evaluate(source string, findings []Finding) Decision {
	var d Decision
	src := strings.ToLower(source)

	for _, f := range findings {
		sev := strings.ToLower(f.Severity)

		effect := e.defaultEffect
		issueSev := sev
		code := f.Code

		if rule, ok := e.match(src, sev); ok {
			effect = rule.effect
			if rule.issueSeverity != "" {
				issueSev = rule.issueSeverity
			}
			if code == "" {
				code = rule.id
			}
		}
		if code == "" {
			code = "unmatched"
		}

		issue := BlockingIssue{
			Severity: issueSev,
			Source:   source,
			Code:     code,
			Message:  f.Detail,
		}

		switch effect {
		case EffectBlock:
			d.Issues = append(d.Issues, issue)
		case EffectReport:
			d.Advisories = append(d.Advisories, issue)
		case EffectPass:
		}
	}

	return d
}

// match returns the first rule covering the source and severity, in spec
// order.
func (e *Evaluator) match(source, severity string) (compiledRule, bool) {
	for _, r := range e.rules {
		if r.source != source {
			continue
		}
		if _, ok := r.severities[severity]; ok {
			return r, true
		}
	}
	return compiledRule{}, false
}
