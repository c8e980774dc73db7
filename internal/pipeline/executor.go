package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// Outcome reports one stage execution. Either Output or Err is set;
// Attempts and Elapsed are always recorded.
type Outcome struct {
	Output   any
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Executor runs a single stage body under its retry policy. Stage bodies
// never retry internally; all re-attempt accounting lives here.
type Executor struct {
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
	now    func() time.Time
}

// NewExecutor creates an Executor with wall-clock timing and real sleeps.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		logger: logger.With("system", "executor"),
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// Execute runs the stage until it succeeds, fails with a non-retryable
// error, or exhausts max_retries + 1 attempts. The first attempt runs
// immediately; the delay before each subsequent attempt doubles from the
// policy's base. Non-idempotent stages get exactly one attempt regardless
// of budget. Exhaustion escalates to an ExecutionError carrying the last
// underlying failure.
func (e *Executor) Execute(ctx context.Context, stage Stage, req *Request) Outcome {
	budget := stage.Retry.MaxRetries + 1
	if stage.NonIdempotent {
		budget = 1
	}

	start := e.now()
	var lastErr error

	for attempt := 1; attempt <= budget; attempt++ {
		if attempt > 1 {
			delay := backoff(stage.Retry.BaseDelay, attempt)
			e.logger.Debug("retrying stage",
				"stage", stage.Name,
				"attempt", attempt,
				"delay", delay,
			)
			if err := e.sleep(ctx, delay); err != nil {
				return Outcome{Attempts: attempt - 1, Elapsed: e.now().Sub(start), Err: err}
			}
		}

		output, err := stage.Run(ctx, req)
		if err == nil {
			return Outcome{Output: output, Attempts: attempt, Elapsed: e.now().Sub(start)}
		}

		lastErr = err
		if !Retryable(err) {
			return Outcome{Attempts: attempt, Elapsed: e.now().Sub(start), Err: err}
		}
	}

	return Outcome{
		Attempts: budget,
		Elapsed:  e.now().Sub(start),
		Err:      &ExecutionError{Stage: stage.Name, Attempts: budget, Last: lastErr},
	}
}

// backoff computes the delay before the given attempt: none before the
// first, then base, 2*base, 4*base, and so on. The doubling caps at 2^20
// to keep the shift in range for unbounded budgets.
func backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 1 || base <= 0 {
		return 0
	}
	shift := attempt - 2
	if shift > 20 {
		shift = 20
	}
	return base << shift
}

// sleepContext waits for the duration or the context, whichever ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
