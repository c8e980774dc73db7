package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a stage failure and determines retry eligibility.
type Kind string

const (
	// KindPrecondition marks missing or invalid upstream input. Never retried.
	KindPrecondition Kind = "precondition"
	// KindTransient marks a remote fault expected to clear on its own, such
	// as a network error or 5xx response. Retried per the stage's policy.
	KindTransient Kind = "transient"
	// KindPermanent marks a remote rejection that repeating the call cannot
	// fix, such as a 4xx or auth failure. Never retried.
	KindPermanent Kind = "permanent"
	// KindPollTimeout marks an async operation that never reached a terminal
	// state within its poll budget. Never retried, and distinct from the
	// operation itself failing.
	KindPollTimeout Kind = "poll_timeout"
)

// StageError is a classified failure returned by a stage body.
type StageError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StageError) Unwrap() error { return e.Cause }

// Retryable reports whether the executor may re-attempt after this failure.
func (e *StageError) Retryable() bool { return e.Kind == KindTransient }

// Preconditionf builds a precondition failure.
func Preconditionf(format string, args ...any) *StageError {
	return &StageError{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

// Transientf builds a retryable remote failure.
func Transientf(format string, args ...any) *StageError {
	return &StageError{Kind: KindTransient, Message: fmt.Sprintf(format, args...)}
}

// Permanentf builds a non-retryable remote failure.
func Permanentf(format string, args ...any) *StageError {
	return &StageError{Kind: KindPermanent, Message: fmt.Sprintf(format, args...)}
}

// PollTimeoutf builds a poll budget exhaustion failure.
func PollTimeoutf(format string, args ...any) *StageError {
	return &StageError{Kind: KindPollTimeout, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error, preserving it for errors.Is and
// errors.As.
func Wrap(kind Kind, err error, format string, args ...any) *StageError {
	return &StageError{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Retryable reports whether err may be re-attempted. Only transient remote
// failures qualify; unclassified errors are treated as permanent.
func Retryable(err error) bool {
	var se *StageError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return false
}

// KindOf extracts the failure kind from err. Unclassified errors report
// KindPermanent.
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindPermanent
}

// ExecutionError reports a stage whose retry budget was exhausted without
// success. It carries the last underlying failure.
type ExecutionError struct {
	Stage    string
	Attempts int
	Last     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("stage %s failed after %d attempts: %v", e.Stage, e.Attempts, e.Last)
}

func (e *ExecutionError) Unwrap() error { return e.Last }
