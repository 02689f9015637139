package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds retry configuration for provider calls
type RetryConfig struct {
	MaxRetries  int           // Maximum number of retry attempts
	BaseDelay   time.Duration // Initial delay between retries
	MaxDelay    time.Duration // Maximum delay between retries
	Multiplier  float64       // Multiplier for exponential backoff
	JitterRatio float64       // Jitter ratio (0-1) to add randomness
}

// DefaultRetryConfig returns defaults suited to hosted LLM APIs
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		JitterRatio: 0.1,
	}
}

// TransientError wraps an error that should trigger a retry
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient marks an error as retryable
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether an error was marked retryable
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// Retry runs fn until it succeeds, returns a non-transient error, or the
// attempts are exhausted. The final error is returned unwrapped.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var operation backoff.OperationWithData[T] = func() (T, error) {
		result, err := fn()
		if err != nil && !IsTransient(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	result, err := backoff.RetryWithData(operation, cfg.backOff(ctx))
	if err == nil {
		return result, nil
	}

	var zero T
	var transient *TransientError
	if errors.As(err, &transient) {
		return zero, transient.Err
	}
	return zero, err
}

// newExponential builds the delay schedule: BaseDelay growing by Multiplier up
// to MaxDelay, randomized by JitterRatio, with no overall time limit
func (c RetryConfig) newExponential() *backoff.ExponentialBackOff {
	multiplier := c.Multiplier
	if multiplier < 1 {
		multiplier = backoff.DefaultMultiplier
	}
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.BaseDelay),
		backoff.WithMaxInterval(c.MaxDelay),
		backoff.WithMultiplier(multiplier),
		backoff.WithRandomizationFactor(c.JitterRatio),
		backoff.WithMaxElapsedTime(0),
	)
}

// backOff caps the schedule at MaxRetries and stops when ctx is done
func (c RetryConfig) backOff(ctx context.Context) backoff.BackOff {
	retries := c.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(c.newExponential(), uint64(retries)), ctx)
}

// isTransientStatus reports whether an HTTP status code is worth retrying
func isTransientStatus(code int) bool {
	return code == 408 || code == 429 || code >= 500
}

// looksTransient matches provider error text for rate limits and overload
func looksTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "rate_limit", "resource_exhausted", "overloaded", "unavailable", "429", "503", "529", "timeout"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
