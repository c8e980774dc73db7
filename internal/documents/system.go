package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/pagination"
)

// System is the document domain contract. ByLoan and Content feed the
// pipeline's inventory stage: ByLoan returns a loan's documents in
// upload order and Content fetches the raw file bytes.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	ByLoan(ctx context.Context, loanID string) ([]Document, error)
	Content(ctx context.Context, id uuid.UUID) ([]byte, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
