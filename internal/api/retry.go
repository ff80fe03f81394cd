package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Retry configuration constants
const (
	MaxRetryAttempts  = 3
	InitialBackoff    = 500 * time.Millisecond
	MaxBackoff        = 5 * time.Second
	BackoffMultiplier = 2.0
)

// RetryableStatusCodes are provider statuses worth another attempt
var RetryableStatusCodes = []int{
	http.StatusTooManyRequests,     // 429 - Rate limited
	http.StatusServiceUnavailable,  // 503 - Service unavailable
	http.StatusGatewayTimeout,      // 504 - Gateway timeout
	http.StatusBadGateway,          // 502 - Bad gateway
	http.StatusInternalServerError, // 500 - Internal server error (transient)
}

// ShouldRetry checks if the status code indicates we should retry the call
func ShouldRetry(statusCode int) bool {
	for _, code := range RetryableStatusCodes {
		if statusCode == code {
			return true
		}
	}
	return false
}

// RetryPolicy controls WithRetryPolicy
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy is used by WithRetry
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    MaxRetryAttempts,
	InitialBackoff: InitialBackoff,
	MaxBackoff:     MaxBackoff,
}

// Backoff returns the wait before the retry following attempt
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	backoff := p.InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * BackoffMultiplier)
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
			break
		}
	}
	return backoff
}

// CalculateBackoff returns the default policy's backoff for attempt
func CalculateBackoff(attempt int) time.Duration {
	return DefaultRetryPolicy.Backoff(attempt)
}

// RetryableFunc is a function that can be retried
type RetryableFunc[T any] func() (T, error)

// WithRetry runs fn under DefaultRetryPolicy
func WithRetry[T any](ctx context.Context, fn RetryableFunc[T]) (T, error) {
	return WithRetryPolicy(ctx, DefaultRetryPolicy, fn)
}

// WithRetryPolicy executes fn, retrying provider errors with a retryable
// status (429, 500, 502, 503, 504) with exponential backoff between attempts.
// Any other error is returned immediately.
func WithRetryPolicy[T any](ctx context.Context, p RetryPolicy, fn RetryableFunc[T]) (T, error) {
	var lastErr error
	var zero T

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("operation cancelled: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		var perr *ProviderError
		if !errors.As(err, &perr) || !ShouldRetry(perr.Status) {
			return zero, err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, fmt.Errorf("operation cancelled: %w", ctx.Err())
			case <-time.After(p.Backoff(attempt)):
			}
		}
	}

	return zero, fmt.Errorf("max retry attempts (%d) exceeded: %w", attempts, lastErr)
}
