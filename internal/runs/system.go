package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/pagination"
)

// System defines the public contract for run domain operations. Trigger
// executes the pipeline synchronously and returns the terminal run; history
// rows are appended as the run progresses.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Detail, error)
	Trigger(ctx context.Context, params pipeline.Params) (*pipeline.Run, error)
}
