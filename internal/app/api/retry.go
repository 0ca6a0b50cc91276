package api

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"audio-digest/internal/app/errors"
	"audio-digest/pkg/logger"
)

// maxAttempts bounds how often a single API request is tried.
const maxAttempts = 3

// WithRetry runs fn up to maxAttempts times with jittered exponential
// backoff: the sleep after attempt a is uniform in [2^a, 2·2^a) seconds.
// Non-retryable errors and context cancellation end the loop immediately.
func WithRetry[T any](ctx context.Context, log *logger.Logger, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt - 1)
			log.Warn("request failed, retrying",
				logger.String("operation", operation),
				logger.Int("attempt", attempt+1),
				logger.Duration("backoff", delay),
				logger.Error(lastErr))
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if !IsRetryable(err) {
			return zero, lastErr
		}
	}

	return zero, errors.Wrapf(lastErr, "%s failed after %d attempts", operation, maxAttempts)
}

// backoffDelay returns a sleep uniform in [2^attempt, 2·2^attempt) seconds.
func backoffDelay(attempt int) time.Duration {
	base := float64(int64(1) << uint(attempt))
	seconds := base * (1 + rand.Float64())
	return time.Duration(seconds * float64(time.Second))
}

// IsRetryable classifies an error: rate limits, timeouts and server-side
// failures are worth another attempt, other client errors are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusRequestTimeout, http.StatusTooManyRequests:
			return true
		}
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}

	// Transport-level failures (connection reset, DNS, EOF) surface as plain
	// errors and are always worth retrying.
	return true
}
