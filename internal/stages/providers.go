package stages

import (
	"context"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// Document identifies one intake document available for extraction.
type Document struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Pages    int       `json:"pages"`
	Size     int64     `json:"size"`
}

// WriteResult reports the outcome of one field write.
type WriteResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// QMFlag is one qualified-mortgage indicator on the loan.
type QMFlag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// FieldService reads and writes authoritative loan field values, keyed by
// platform field identifier. WriteFields is never invoked in dry-run mode.
type FieldService interface {
	ReadFields(ctx context.Context, loanID string, fieldIDs []string) (map[string]string, error)
	WriteFields(ctx context.Context, loanID string, updates map[string]string) (map[string]WriteResult, error)
}

// DocumentSource lists and fetches the intake documents for a loan.
type DocumentSource interface {
	Documents(ctx context.Context, loanID string) ([]Document, error)
	Content(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Extractor converts one document into structured field values keyed by
// pipeline field identifier.
type Extractor interface {
	Extract(ctx context.Context, doc Document, content []byte) (map[string]string, error)
}

// ComplianceService runs loan compliance checks and reads the
// qualified-mortgage flags.
type ComplianceService interface {
	RunCheck(ctx context.Context, loanID string) ([]pipeline.Finding, error)
	QMFlags(ctx context.Context, loanID string) ([]QMFlag, error)
}

// Operation kinds accepted by the OperationService.
const (
	OpAudit    = "audit"
	OpOrder    = "order"
	OpDelivery = "delivery"
)

// OperationService creates long-running platform operations and reports
// their status. Terminal payload conventions by kind: audit carries
// []AuditItem, order carries the generated package identifier, delivery
// carries the delivery receipt.
type OperationService interface {
	CreateOperation(ctx context.Context, loanID, kind string, params map[string]any) (string, error)
	OperationStatus(ctx context.Context, id string) (*pipeline.Operation, error)
}
