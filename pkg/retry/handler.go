package retry

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rohmanhakim/docs-crawler/pkg/failure"
	"github.com/rohmanhakim/docs-crawler/pkg/timeutil"
)

// retryableError is implemented by the ClassifiedError variants that know
// whether the condition that produced them is worth retrying.
type retryableError interface {
	IsRetryable() bool
}

// Retry calls fn up to retryParam.MaxAttempts times, applying exponential
// backoff with jitter between attempts, and stops early the moment fn
// succeeds or returns a non-retryable error. T is fn's success value type.
func Retry[T any](retryParam RetryParam, fn func() (T, failure.ClassifiedError)) Result[T] {
	var zero T
	if retryParam.MaxAttempts < 1 {
		return Result[T]{err: &RetryError{
			Message:   "max attempt cannot be 0",
			Cause:     ErrZeroAttempt,
			Retryable: true,
		}}
	}

	rng := rand.New(rand.NewSource(retryParam.RandomSeed))

	var lastErr failure.ClassifiedError
	for attempt := 1; attempt <= retryParam.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return NewSuccessResult(result, attempt)
		}

		lastErr = err
		if !isErrorRetryable(err) {
			return Result[T]{value: zero, err: err, attempts: attempt}
		}
		if attempt == retryParam.MaxAttempts {
			break
		}

		delay := timeutil.ExponentialBackoffDelay(attempt, retryParam.Jitter, *rng, retryParam.BackoffParam)
		time.Sleep(delay)
	}

	return Result[T]{
		value: zero,
		err: &RetryError{
			Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", retryParam.MaxAttempts, lastErr),
			Cause:     ErrExhaustedAttempts,
			Retryable: true,
		},
		attempts: retryParam.MaxAttempts,
	}
}

// isErrorRetryable reports whether err should trigger another attempt. An
// error that doesn't opine on retryability (doesn't implement
// retryableError) is treated as retryable by default.
func isErrorRetryable(err failure.ClassifiedError) bool {
	r, ok := err.(retryableError)
	return !ok || r.IsRetryable()
}
