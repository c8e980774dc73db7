package pipeline

import (
	"context"
	"fmt"
	"maps"
	"time"
)

// Mode controls whether a run may write to the authoritative loan record.
type Mode string

const (
	// ModeApply permits destructive writes.
	ModeApply Mode = "apply"
	// ModeDryRun suppresses every write. Destructive stages describe what
	// they would have done instead of doing it.
	ModeDryRun Mode = "dry-run"
)

// ParseMode validates a string as a run mode. There is no default: callers
// state the mode explicitly or the run is rejected.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeApply, ModeDryRun:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode: %q", s)
}

// Destructive reports whether the mode permits writes to the system of record.
func (m Mode) Destructive() bool { return m == ModeApply }

// FailurePolicy controls run progression after a stage's terminal failure.
type FailurePolicy string

const (
	// HaltOnFailure skips every remaining stage and fails the run.
	HaltOnFailure FailurePolicy = "halt"
	// ContinueOnFailure lets downstream stages execute; the failure still
	// counts toward the terminal run status.
	ContinueOnFailure FailurePolicy = "continue"
)

// RetryPolicy bounds executor attempts for one stage. MaxRetries counts
// re-attempts after the first; BaseDelay seeds the doubling backoff
// between attempts.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// StageFunc is a stage body: a function of the loan, the mode, and the
// accumulated upstream outputs. Bodies return one structured output value
// and never retry internally.
type StageFunc func(ctx context.Context, req *Request) (any, error)

// Stage couples a stage body with its execution policies. Destructive
// stages are gated on the absence of blocking issues; non-idempotent
// stages are never re-attempted after a failure.
type Stage struct {
	Name          string
	Run           StageFunc
	OnFailure     FailurePolicy
	Retry         RetryPolicy
	Destructive   bool
	NonIdempotent bool
}

// Request carries the per-run inputs handed to a stage body. Outputs is a
// read-only view of upstream stage outputs.
type Request struct {
	LoanID  string
	Mode    Mode
	Outputs Outputs
}

// Outputs indexes accumulated upstream stage outputs by stage name.
type Outputs map[string]any

// Value returns the recorded output of an upstream stage.
func (o Outputs) Value(stage string) (any, bool) {
	v, ok := o[stage]
	return v, ok
}

func (o Outputs) clone() Outputs {
	if o == nil {
		return Outputs{}
	}
	return maps.Clone(o)
}

// Output retrieves a typed upstream output, reporting a precondition
// failure when the stage has not produced a value of the expected type.
func Output[T any](o Outputs, stage string) (T, error) {
	var zero T
	v, ok := o[stage]
	if !ok {
		return zero, Preconditionf("missing %s output", stage)
	}
	t, ok := v.(T)
	if !ok {
		return zero, Preconditionf("unexpected %s output type %T", stage, v)
	}
	return t, nil
}
