// ABOUTME: This file tests the backoff executor with an injected clock and sleeper
// ABOUTME: Covers retry counts, delay floors, server reset times, and cancellation
package retry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genai-news/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Only errors in tests
	}))
}

type fakeSleeper struct {
	waits []time.Duration
	err   error
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.waits = append(f.waits, d)
	return f.err
}

type countingRecorder struct {
	outcomes []string
}

func (c *countingRecorder) RecordRetryAttempt(_ string, outcome string) {
	c.outcomes = append(c.outcomes, outcome)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRetrier(cfg RetryConfig, sleeper *fakeSleeper, opts ...Option) *Retrier {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithSleep(sleeper.sleep),
	}, opts...)
	return NewRetrier(cfg, testLogger(), opts...)
}

func rateLimited(resetIn time.Duration) error {
	if resetIn == 0 {
		return domain.NewRateLimitedError("search", 429, nil, errors.New("quota exceeded"))
	}
	reset := fixedNow.Add(resetIn)
	return domain.NewRateLimitedError("search", 429, &reset, errors.New("quota exceeded"))
}

func TestRetrier_Do(t *testing.T) {
	permanent := errors.New("bad request")

	tests := map[string]struct {
		errs          []error
		expectedCalls int
		expectedWaits []time.Duration
		wantErr       error
	}{
		"success on first attempt": {
			errs:          []error{nil},
			expectedCalls: 1,
			expectedWaits: nil,
		},
		"success after one rate limit": {
			errs:          []error{rateLimited(0), nil},
			expectedCalls: 2,
			expectedWaits: []time.Duration{time.Second},
		},
		"exponential floor without reset time": {
			errs:          []error{rateLimited(0), rateLimited(0), nil},
			expectedCalls: 3,
			expectedWaits: []time.Duration{time.Second, 2 * time.Second},
		},
		"server reset longer than floor wins": {
			errs:          []error{rateLimited(10 * time.Second), nil},
			expectedCalls: 2,
			expectedWaits: []time.Duration{10 * time.Second},
		},
		"floor applies when server reset is shorter": {
			errs:          []error{rateLimited(0), rateLimited(500 * time.Millisecond), nil},
			expectedCalls: 3,
			expectedWaits: []time.Duration{time.Second, 2 * time.Second},
		},
		"reset time in the past falls back to floor": {
			errs:          []error{rateLimited(-time.Minute), nil},
			expectedCalls: 2,
			expectedWaits: []time.Duration{time.Second},
		},
		"non rate limited error is not retried": {
			errs:          []error{permanent, nil},
			expectedCalls: 1,
			expectedWaits: nil,
			wantErr:       permanent,
		},
		"other external error is not retried": {
			errs:          []error{domain.NewExternalError("search", 500, permanent)},
			expectedCalls: 1,
			wantErr:       permanent,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sleeper := &fakeSleeper{}
			r := newTestRetrier(DefaultRetryConfig(), sleeper)

			calls := 0
			err := r.Do(context.Background(), "search", func(context.Context) error {
				e := tc.errs[calls]
				calls++
				return e
			})

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.expectedCalls, calls)
			assert.Equal(t, tc.expectedWaits, sleeper.waits)
		})
	}
}

func TestRetrier_ExhaustionReturnsLastErrorUnchanged(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(RetryConfig{MaxAttempts: 4, BaseDelay: 100 * time.Millisecond}, sleeper)

	var last error
	calls := 0
	err := r.Do(context.Background(), "translate", func(context.Context) error {
		calls++
		last = rateLimited(0)
		return last
	})

	// maxAttempts-1 retries, then the final error itself.
	assert.Equal(t, 4, calls)
	assert.Same(t, last, err)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
	}, sleeper.waits)
}

func TestRetrier_WaitNeverBelowFloor(t *testing.T) {
	base := 250 * time.Millisecond
	for attempt := 0; attempt < 5; attempt++ {
		sleeper := &fakeSleeper{}
		r := newTestRetrier(RetryConfig{MaxAttempts: 6, BaseDelay: base}, sleeper)

		floor := base * time.Duration(1<<attempt)
		delay := r.calculateDelay(attempt, rateLimited(time.Millisecond))

		assert.GreaterOrEqual(t, delay, floor, "attempt %d", attempt)
	}
}

func TestRetrier_ContextCancelledDuringWait(t *testing.T) {
	sleeper := &fakeSleeper{err: context.Canceled}
	recorder := &countingRecorder{}
	r := newTestRetrier(DefaultRetryConfig(), sleeper, WithRecorder(recorder))

	calls := 0
	err := r.Do(context.Background(), "extract", func(context.Context) error {
		calls++
		return rateLimited(0)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry cancelled")
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{OutcomeRetry, OutcomeCancelled}, recorder.outcomes)
}

func TestRetrier_RecordsOutcomes(t *testing.T) {
	sleeper := &fakeSleeper{}
	recorder := &countingRecorder{}
	r := newTestRetrier(DefaultRetryConfig(), sleeper, WithRecorder(recorder))

	calls := 0
	err := r.Do(context.Background(), "search", func(context.Context) error {
		calls++
		if calls == 1 {
			return rateLimited(0)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{OutcomeRetry, OutcomeSuccess}, recorder.outcomes)
}

func TestRun(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(DefaultRetryConfig(), sleeper)

	t.Run("returns value after retry", func(t *testing.T) {
		calls := 0
		got, err := Run(context.Background(), r, "generate", func(context.Context) (string, error) {
			calls++
			if calls == 1 {
				return "", rateLimited(0)
			}
			return "こんにちは", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "こんにちは", got)
	})

	t.Run("returns zero value on failure", func(t *testing.T) {
		got, err := Run(context.Background(), r, "generate", func(context.Context) (int, error) {
			return 42, errors.New("boom")
		})

		require.Error(t, err)
		assert.Zero(t, got)
	})
}

func TestSleepContext(t *testing.T) {
	t.Run("returns nil after duration", func(t *testing.T) {
		require.NoError(t, SleepContext(context.Background(), time.Millisecond))
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := SleepContext(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
