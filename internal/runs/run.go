// Package runs implements the run history domain for drawdoc. It stores
// every pipeline execution as an append-only ledger row with its per-stage
// results and blocking issues, serves run queries, and triggers new runs
// through the orchestration engine.
package runs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run represents one recorded pipeline execution. It mirrors the runs table
// schema; stage results and issues live in their own tables and appear on
// Detail.
type Run struct {
	ID        uuid.UUID `json:"id"`
	LoanID    string    `json:"loan_id"`
	Mode      string    `json:"mode"`
	Status    string    `json:"status"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StageRecord is one stage execution within a stored run. Output carries
// the stage's structured output verbatim as recorded at execution time.
type StageRecord struct {
	Stage     string          `json:"stage"`
	Status    string          `json:"status"`
	Attempts  int             `json:"attempts"`
	ElapsedMS int64           `json:"elapsed_ms"`
	Output    json.RawMessage `json:"output,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
}

// Issue is one stored blocking issue or advisory.
type Issue struct {
	Severity string `json:"severity"`
	Source   string `json:"source"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Detail is a fully hydrated run: the ledger row plus its stage results and
// gate findings in recorded order.
type Detail struct {
	Run
	Stages     []StageRecord `json:"stages"`
	Issues     []Issue       `json:"issues"`
	Advisories []Issue       `json:"advisories,omitempty"`
}
