package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// OperationState is the normalized lifecycle state of an async platform
// operation. Provider clients map remote status strings onto these values.
type OperationState string

const (
	OperationPending    OperationState = "pending"
	OperationInProgress OperationState = "in_progress"
	OperationCompleted  OperationState = "completed"
	OperationFailed     OperationState = "failed"
)

// Terminal reports whether the state admits no further transitions.
func (s OperationState) Terminal() bool {
	return s == OperationCompleted || s == OperationFailed
}

// Operation is a point-in-time snapshot of an async platform operation.
// Payload carries the terminal result; Reason explains a failed state.
type Operation struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	State   OperationState `json:"state"`
	Payload any            `json:"payload,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

// PollPolicy bounds poll-until-terminal for one operation class. The
// interval is fixed: remote completion times are roughly uniform and
// bounded by SLA, so there is no backoff between checks.
type PollPolicy struct {
	Interval  time.Duration
	MaxChecks int
}

// StatusFunc fetches the current snapshot of an operation.
type StatusFunc func(ctx context.Context, id string) (*Operation, error)

// Poller drives async operations to a terminal state. It owns the
// operation for the duration of the wait; callers only see the terminal
// snapshot.
type Poller struct {
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// NewPoller creates a Poller with real sleeps.
func NewPoller(logger *slog.Logger) *Poller {
	return &Poller{
		logger: logger.With("system", "poller"),
		sleep:  sleepContext,
	}
}

// Await checks the operation at the policy's fixed interval until it
// reports a terminal state. The first check is immediate. A completed
// operation returns its final snapshot; a failed one returns the snapshot
// alongside a permanent error carrying the remote reason. Exhausting the
// check budget yields a poll timeout, surfaced distinctly from the
// operation failing. Status fetch errors propagate to the caller as-is.
func (p *Poller) Await(ctx context.Context, id string, policy PollPolicy, status StatusFunc) (*Operation, error) {
	for check := 1; check <= policy.MaxChecks; check++ {
		if check > 1 {
			if err := p.sleep(ctx, policy.Interval); err != nil {
				return nil, err
			}
		}

		op, err := status(ctx, id)
		if err != nil {
			return nil, err
		}

		switch op.State {
		case OperationCompleted:
			p.logger.Debug("operation completed",
				"id", id,
				"kind", op.Kind,
				"checks", check,
			)
			return op, nil
		case OperationFailed:
			return op, Permanentf("operation %s failed: %s", id, op.Reason)
		}
	}

	return nil, PollTimeoutf("operation %s not terminal after %d checks", id, policy.MaxChecks)
}
