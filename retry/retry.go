// ABOUTME: This file implements the backoff executor wrapped around every external call
// ABOUTME: Only rate-limited errors are retried; the server reset time never shortens the exponential floor
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"genai-news/domain"
)

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryConfig returns 3 attempts with a 1s base delay.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
	}
}

// Attempt outcomes reported to the AttemptRecorder.
const (
	OutcomeSuccess   = "success"
	OutcomeRetry     = "retry"
	OutcomeGiveUp    = "give_up"
	OutcomeCancelled = "cancelled"
)

// AttemptRecorder receives one call per attempt outcome.
type AttemptRecorder interface {
	RecordRetryAttempt(operation, outcome string)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Option func(*Retrier)

// WithClock overrides the clock used to interpret reset timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Retrier) {
		r.now = now
	}
}

// WithSleep overrides how the retrier waits between attempts.
func WithSleep(sleep SleepFunc) Option {
	return func(r *Retrier) {
		r.sleep = sleep
	}
}

func WithRecorder(recorder AttemptRecorder) Option {
	return func(r *Retrier) {
		r.recorder = recorder
	}
}

type Retrier struct {
	config   RetryConfig
	logger   *slog.Logger
	now      func() time.Time
	sleep    SleepFunc
	recorder AttemptRecorder
}

func NewRetrier(config RetryConfig, logger *slog.Logger, opts ...Option) *Retrier {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	r := &Retrier{
		config: config,
		logger: logger,
		now:    time.Now,
		sleep:  SleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs operation until it succeeds, fails with a non rate-limited error,
// or runs out of attempts. The last error is returned unchanged.
func (r *Retrier) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 0 {
				r.logger.InfoContext(ctx, "operation succeeded after retry",
					"operation", operation,
					"attempt", attempt+1)
			}
			r.record(operation, OutcomeSuccess)
			return nil
		}

		rateLimited := domain.IsRateLimited(lastErr)
		r.logger.WarnContext(ctx, "operation attempt failed",
			"operation", operation,
			"attempt", attempt+1,
			"max_attempts", r.config.MaxAttempts,
			"rate_limited", rateLimited,
			"error", lastErr)

		if !rateLimited || attempt == r.config.MaxAttempts-1 {
			r.record(operation, OutcomeGiveUp)
			return lastErr
		}

		delay := r.calculateDelay(attempt, lastErr)
		r.logger.InfoContext(ctx, "retry backoff wait",
			"operation", operation,
			"attempt", attempt+1,
			"retry_delay_ms", delay.Milliseconds())
		r.record(operation, OutcomeRetry)

		if err := r.sleep(ctx, delay); err != nil {
			r.logger.ErrorContext(ctx, "retry cancelled by context",
				"operation", operation,
				"attempt", attempt+1,
				"context_error", err)
			r.record(operation, OutcomeCancelled)
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}

	return lastErr
}

// Run is Do for operations that produce a value.
func Run[T any](ctx context.Context, r *Retrier, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, operation, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// calculateDelay returns max(base*2^attempt, resetAt-now).
func (r *Retrier) calculateDelay(attempt int, err error) time.Duration {
	delay := backoffFloor(r.config.BaseDelay, attempt)

	if resetAt, ok := domain.ResetAtOf(err); ok {
		if server := resetAt.Sub(r.now()); server > delay {
			delay = server
		}
	}
	return delay
}

func backoffFloor(base time.Duration, attempt int) time.Duration {
	floor := float64(base) * math.Pow(2, float64(attempt))
	if floor >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(floor)
}

func (r *Retrier) record(operation, outcome string) {
	if r.recorder != nil {
		r.recorder.RecordRetryAttempt(operation, outcome)
	}
}

// SleepContext blocks for d, returning early with ctx.Err() on cancellation.
func SleepContext(ctx context.Context, d time.Duration) error {
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
