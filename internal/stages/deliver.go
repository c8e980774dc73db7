package stages

import (
	"context"
	"fmt"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// DeliverOutput records the delivery receipt, or the delivery a dry run
// would have requested.
type DeliverOutput struct {
	Planned     bool   `json:"planned"`
	OperationID string `json:"operation_id,omitempty"`
	Receipt     string `json:"receipt,omitempty"`
	Description string `json:"description,omitempty"`
}

// Deliver builds the stage that sends the ordered package to the
// settlement agent. Delivery reaches an outside party and cannot be
// recalled, so the stage gets a single attempt.
func Deliver(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:          StageDeliver,
		OnFailure:     pipeline.HaltOnFailure,
		Destructive:   true,
		NonIdempotent: true,
		Retry:         d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			if !req.Mode.Destructive() {
				return DeliverOutput{
					Planned:     true,
					Description: fmt.Sprintf("would deliver closing package for loan %s to the settlement agent", req.LoanID),
				}, nil
			}
			ord, err := pipeline.Output[OrderOutput](req.Outputs, StageOrder)
			if err != nil {
				return nil, err
			}
			if ord.PackageID == "" {
				return nil, pipeline.Preconditionf("loan %s has no ordered package to deliver", req.LoanID)
			}
			params := map[string]any{"package_id": ord.PackageID}
			id, err := d.Operations.CreateOperation(ctx, req.LoanID, OpDelivery, params)
			if err != nil {
				return nil, err
			}
			op, err := d.Poller.Await(ctx, id, d.poll(OpDelivery), d.Operations.OperationStatus)
			if err != nil {
				return nil, err
			}
			receipt, err := payloadString(op)
			if err != nil {
				return nil, err
			}
			return DeliverOutput{OperationID: id, Receipt: receipt}, nil
		},
	}
}
