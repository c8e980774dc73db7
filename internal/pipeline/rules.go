package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Effect is the gate consequence a rule assigns to matching findings.
type Effect string

const (
	// EffectBlock records a blocking issue and gates destructive stages.
	EffectBlock Effect = "block"
	// EffectReport records an advisory without blocking.
	EffectReport Effect = "report"
	// EffectPass drops the finding.
	EffectPass Effect = "pass"
)

// RuleSchema identifies the gate rule document format.
const RuleSchema = "drawdoc.gate/v1"

// RuleSpec is a declarative blocking-condition rule table, loadable from
// YAML. Rules are evaluated in order; the first rule matching a finding's
// source and severity wins. DefaultEffect applies to unmatched findings
// and defaults to block.
type RuleSpec struct {
	Schema        string `yaml:"schema"`
	DefaultEffect Effect `yaml:"default_effect,omitempty"`
	Rules         []Rule `yaml:"rules"`
}

// Rule maps findings from one source stage to a gate effect. Severity
// matching is case-insensitive. IssueSeverity overrides the severity
// recorded on the resulting issue; when empty, the finding's own severity
// carries through.
type Rule struct {
	ID            string   `yaml:"id"`
	Source        string   `yaml:"source"`
	Severities    []string `yaml:"severities"`
	Effect        Effect   `yaml:"effect"`
	IssueSeverity string   `yaml:"issue_severity,omitempty"`
}

// Validate checks the schema tag, rule completeness, identifier
// uniqueness, and effect values.
func (s *RuleSpec) Validate() error {
	if s.Schema != RuleSchema {
		return fmt.Errorf("unsupported rule schema: %q", s.Schema)
	}
	if s.DefaultEffect != "" && !validEffect(s.DefaultEffect) {
		return fmt.Errorf("invalid default_effect: %q", s.DefaultEffect)
	}
	if len(s.Rules) == 0 {
		return errors.New("rule spec has no rules")
	}

	seen := make(map[string]struct{}, len(s.Rules))
	for i, r := range s.Rules {
		if r.ID == "" {
			return fmt.Errorf("rule %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate rule id: %s", r.ID)
		}
		seen[r.ID] = struct{}{}

		if r.Source == "" {
			return fmt.Errorf("rule %s: missing source", r.ID)
		}
		if len(r.Severities) == 0 {
			return fmt.Errorf("rule %s: missing severities", r.ID)
		}
		if !validEffect(r.Effect) {
			return fmt.Errorf("rule %s: invalid effect %q", r.ID, r.Effect)
		}
	}
	return nil
}

func validEffect(e Effect) bool {
	return e == EffectBlock || e == EffectReport || e == EffectPass
}

// LoadRules reads a rule spec from a YAML file.
func LoadRules(path string) (*RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule spec: %w", err)
	}

	var spec RuleSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse rule spec: %w", err)
	}
	return &spec, nil
}

// DefaultRules returns the built-in rule table: compliance failures,
// alerts, and warnings block; a RED qualified-mortgage flag blocks while
// YELLOW is reported only; unresolved audit items block; informational
// findings pass.
func DefaultRules() *RuleSpec {
	return &RuleSpec{
		Schema:        RuleSchema,
		DefaultEffect: EffectBlock,
		Rules: []Rule{
			{
				ID:         "compliance-fail",
				Source:     "compliance",
				Severities: []string{"fail"},
				Effect:     EffectBlock,
			},
			{
				ID:         "compliance-alert",
				Source:     "compliance",
				Severities: []string{"alert"},
				Effect:     EffectBlock,
			},
			{
				ID:         "compliance-warning",
				Source:     "compliance",
				Severities: []string{"warning"},
				Effect:     EffectBlock,
			},
			{
				ID:         "compliance-info",
				Source:     "compliance",
				Severities: []string{"info", "pass"},
				Effect:     EffectPass,
			},
			{
				ID:            "qm-red",
				Source:        "qm",
				Severities:    []string{"red"},
				Effect:        EffectBlock,
				IssueSeverity: "fail",
			},
			{
				ID:            "qm-yellow",
				Source:        "qm",
				Severities:    []string{"yellow"},
				Effect:        EffectReport,
				IssueSeverity: "warning",
			},
			{
				ID:         "qm-green",
				Source:     "qm",
				Severities: []string{"green"},
				Effect:     EffectPass,
			},
			{
				ID:            "audit-unresolved",
				Source:        "audit",
				Severities:    []string{"unresolved"},
				Effect:        EffectBlock,
				IssueSeverity: "fail",
			},
			{
				ID:         "audit-resolved",
				Source:     "audit",
				Severities: []string{"resolved"},
				Effect:     EffectPass,
			},
		},
	}
}
