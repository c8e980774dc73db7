package runs

import (
	"net/url"
	"time"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/query"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("loan_id", "LoanID").
	Project("mode", "Mode").
	Project("status", "Status").
	Project("summary", "Summary").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries. Nil fields
// are ignored. LoanID, Mode, and Status use exact matching; CreatedFrom and
// CreatedTo bound the creation timestamp inclusively.
type Filters struct {
	LoanID      *string    `json:"loan_id,omitempty"`
	Mode        *string    `json:"mode,omitempty"`
	Status      *string    `json:"status,omitempty"`
	CreatedFrom *time.Time `json:"created_from,omitempty"`
	CreatedTo   *time.Time `json:"created_to,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("LoanID", f.LoanID).
		WhereEquals("Mode", f.Mode).
		WhereEquals("Status", f.Status).
		WhereAtLeast("CreatedAt", f.CreatedFrom).
		WhereAtMost("CreatedAt", f.CreatedTo)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Timestamps use RFC 3339.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if l := values.Get("loan_id"); l != "" {
		f.LoanID = &l
	}

	if m := values.Get("mode"); m != "" {
		f.Mode = &m
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if from := values.Get("created_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			f.CreatedFrom = &t
		}
	}

	if to := values.Get("created_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			f.CreatedTo = &t
		}
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.LoanID,
		&r.Mode,
		&r.Status,
		&r.Summary,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func scanStageRecord(s repository.Scanner) (StageRecord, error) {
	var rec StageRecord
	var output []byte

	err := s.Scan(
		&rec.Stage,
		&rec.Status,
		&rec.Attempts,
		&rec.ElapsedMS,
		&output,
		&rec.Error,
		&rec.ErrorKind,
	)
	if err != nil {
		return rec, err
	}

	if len(output) > 0 {
		rec.Output = output
	}
	return rec, nil
}

// issueRow pairs a stored issue with its advisory flag so one scan covers
// both blocking issues and advisories.
type issueRow struct {
	Issue
	Advisory bool
}

func scanIssueRow(s repository.Scanner) (issueRow, error) {
	var row issueRow
	err := s.Scan(
		&row.Advisory,
		&row.Severity,
		&row.Source,
		&row.Code,
		&row.Message,
	)
	return row, err
}
