package stages

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FieldMapSchema identifies the field map document format.
const FieldMapSchema = "drawdoc.fieldmap/v1"

// Normalization modes a field entry may declare.
const (
	NormalizeText   = "text"
	NormalizeAmount = "amount"
	NormalizeDate   = "date"
)

// FieldMap translates pipeline field identifiers to platform field
// identifiers and carries per-field normalization and completeness
// requirements.
type FieldMap struct {
	Schema string       `yaml:"schema"`
	Fields []FieldEntry `yaml:"fields"`
}

// FieldEntry describes one mapped loan field.
type FieldEntry struct {
	ID         string `yaml:"id"`
	PlatformID string `yaml:"platform_id"`
	Normalize  string `yaml:"normalize,omitempty"`
	Required   bool   `yaml:"required,omitempty"`
}

// Validate checks schema and entry integrity.
func (m *FieldMap) Validate() error {
	if m.Schema != FieldMapSchema {
		return fmt.Errorf("unsupported field map schema %q (want %q)", m.Schema, FieldMapSchema)
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("field map has no fields")
	}
	ids := make(map[string]bool, len(m.Fields))
	platform := make(map[string]bool, len(m.Fields))
	for i, f := range m.Fields {
		if f.ID == "" {
			return fmt.Errorf("field %d: missing id", i)
		}
		if f.PlatformID == "" {
			return fmt.Errorf("field %q: missing platform_id", f.ID)
		}
		if ids[f.ID] {
			return fmt.Errorf("duplicate field id %q", f.ID)
		}
		if platform[f.PlatformID] {
			return fmt.Errorf("duplicate platform_id %q", f.PlatformID)
		}
		ids[f.ID] = true
		platform[f.PlatformID] = true
		switch f.Normalize {
		case "", NormalizeText, NormalizeAmount, NormalizeDate:
		default:
			return fmt.Errorf("field %q: unknown normalize mode %q", f.ID, f.Normalize)
		}
	}
	return nil
}

// IDs returns the pipeline field identifiers in declaration order.
func (m *FieldMap) IDs() []string {
	ids := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		ids[i] = f.ID
	}
	return ids
}

// PlatformIDs returns the platform field identifiers in declaration order.
func (m *FieldMap) PlatformIDs() []string {
	ids := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		ids[i] = f.PlatformID
	}
	return ids
}

// Required returns the identifiers of fields that must carry a value for a
// loan to be considered complete.
func (m *FieldMap) Required() []string {
	var ids []string
	for _, f := range m.Fields {
		if f.Required {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// PlatformID resolves a pipeline field identifier to its platform
// identifier.
func (m *FieldMap) PlatformID(id string) (string, bool) {
	for _, f := range m.Fields {
		if f.ID == id {
			return f.PlatformID, true
		}
	}
	return "", false
}

// IDFor resolves a platform field identifier back to its pipeline
// identifier.
func (m *FieldMap) IDFor(platformID string) (string, bool) {
	for _, f := range m.Fields {
		if f.PlatformID == platformID {
			return f.ID, true
		}
	}
	return "", false
}

// Normalize canonicalizes a raw value according to the field's declared
// normalization mode, so that extracted and authoritative values compare
// representation-free.
func (m *FieldMap) Normalize(id, value string) string {
	mode := NormalizeText
	for _, f := range m.Fields {
		if f.ID == id {
			if f.Normalize != "" {
				mode = f.Normalize
			}
			break
		}
	}
	switch mode {
	case NormalizeAmount:
		return normalizeAmount(value)
	case NormalizeDate:
		return normalizeDate(value)
	default:
		return normalizeText(value)
	}
}

func normalizeText(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

func normalizeAmount(v string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(v) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == '$', r == ',', r == ' ':
		default:
			return normalizeText(v)
		}
	}
	out := strings.TrimSuffix(b.String(), ".")
	out = strings.TrimSuffix(out, ".0")
	out = strings.TrimSuffix(out, ".00")
	if out == "" {
		return ""
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

func normalizeDate(v string) string {
	trimmed := normalizeText(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return trimmed
}

// LoadFieldMap reads and validates a field map from a YAML file.
func LoadFieldMap(path string) (*FieldMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field map: %w", err)
	}
	var m FieldMap
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse field map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// DefaultFieldMap returns the built-in mapping for the standard draw
// document field set.
func DefaultFieldMap() *FieldMap {
	return &FieldMap{
		Schema: FieldMapSchema,
		Fields: []FieldEntry{
			{ID: "borrower_name", PlatformID: "4000", Normalize: NormalizeText, Required: true},
			{ID: "property_address", PlatformID: "11", Normalize: NormalizeText, Required: true},
			{ID: "loan_amount", PlatformID: "1109", Normalize: NormalizeAmount, Required: true},
			{ID: "note_rate", PlatformID: "3", Normalize: NormalizeAmount, Required: true},
			{ID: "closing_date", PlatformID: "748", Normalize: NormalizeDate, Required: true},
			{ID: "loan_term", PlatformID: "4", Normalize: NormalizeAmount},
			{ID: "appraised_value", PlatformID: "356", Normalize: NormalizeAmount},
			{ID: "settlement_agent", PlatformID: "610", Normalize: NormalizeText},
		},
	}
}
