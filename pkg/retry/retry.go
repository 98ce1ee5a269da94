package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jdziat/simple-sequential-jobs/pkg/core"
	intctx "github.com/jdziat/simple-sequential-jobs/pkg/internal/context"
	"github.com/jdziat/simple-sequential-jobs/pkg/security"
)

// Config holds configuration for retry with backoff.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	// Default: 100ms
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	// Default: 5s
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier applied to backoff after each attempt.
	// Default: 2.0
	BackoffMultiplier float64

	// JitterFraction is the fraction of backoff to randomize (0.0 to 1.0).
	// Default: 0.1 (10% jitter)
	JitterFraction float64
}

// DefaultConfig returns the default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFraction:    0.1,
	}
}

// Wrap returns a copy of job whose function is retried according to config.
func Wrap(job *core.Job, config Config) *core.Job {
	return &core.Job{Name: job.Name, Fn: Func(job.Fn, config)}
}

// Func returns fn retried according to config.
func Func(fn core.Func, config Config) core.Func {
	return func(ctx context.Context) (any, error) {
		return Do(ctx, config, fn)
	}
}

// Do executes fn with exponential backoff on failure.
// It respects context cancellation. When every attempt fails the last error
// is returned wrapped with core.ErrRetriesExceeded.
func Do(ctx context.Context, config Config, fn core.Func) (any, error) {
	maxAttempts := security.ClampRetries(config.MaxAttempts)
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := fn(intctx.WithAttempt(ctx, attempt))
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryableError(err) {
			return nil, err
		}

		// Check if we've exhausted attempts
		if attempt >= maxAttempts {
			break
		}

		sleepDuration := jittered(backoff, config.JitterFraction)
		var retryAfter *core.RetryAfterError
		if errors.As(err, &retryAfter) {
			sleepDuration = retryAfter.Delay
		}

		// Wait for backoff or context cancellation
		timer := time.NewTimer(sleepDuration)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		// Increase backoff for next attempt
		backoff = time.Duration(float64(backoff) * config.BackoffMultiplier)
		if config.MaxBackoff > 0 && backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", core.ErrRetriesExceeded, maxAttempts, lastErr)
}

func jittered(backoff time.Duration, fraction float64) time.Duration {
	jitter := time.Duration(float64(backoff) * fraction * (rand.Float64()*2 - 1))
	d := backoff + jitter
	if d < 0 {
		return backoff
	}
	return d
}

// IsRetryableError determines if an error is worth retrying.
// Returns false for errors that indicate permanent failures.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var noRetry *core.NoRetryError
	return !errors.As(err, &noRetry)
}
