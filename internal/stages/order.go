package stages

import (
	"context"
	"fmt"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// OrderOutput records the document order placed, or the order a dry run
// would have placed.
type OrderOutput struct {
	Planned     bool   `json:"planned"`
	OperationID string `json:"operation_id,omitempty"`
	PackageID   string `json:"package_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// Order builds the stage that orders the closing document package. The
// platform renders the package asynchronously, so the stage polls the
// order operation to completion. Ordering generates documents on the loan
// and cannot be safely repeated, so the stage gets a single attempt.
func Order(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:          StageOrder,
		OnFailure:     pipeline.HaltOnFailure,
		Destructive:   true,
		NonIdempotent: true,
		Retry:         d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			if !req.Mode.Destructive() {
				return OrderOutput{
					Planned:     true,
					Description: fmt.Sprintf("would order closing document package for loan %s", req.LoanID),
				}, nil
			}
			id, err := d.Operations.CreateOperation(ctx, req.LoanID, OpOrder, nil)
			if err != nil {
				return nil, err
			}
			op, err := d.Poller.Await(ctx, id, d.poll(OpOrder), d.Operations.OperationStatus)
			if err != nil {
				return nil, err
			}
			packageID, err := payloadString(op)
			if err != nil {
				return nil, err
			}
			return OrderOutput{OperationID: id, PackageID: packageID}, nil
		},
	}
}

func payloadString(op *pipeline.Operation) (string, error) {
	if op.Payload == nil {
		return "", nil
	}
	s, ok := op.Payload.(string)
	if !ok {
		return "", pipeline.Preconditionf("operation %s: unexpected payload %T", op.ID, op.Payload)
	}
	return s, nil
}
