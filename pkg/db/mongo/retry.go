package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "hms/pkg/errors"
)

// IsTransient reports whether an error is worth retrying: driver timeouts
// and broken connections, but never duplicate keys or decode failures.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return false
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// WithRetry runs fn up to retries+1 times with a linear backoff between
// attempts, retrying only transient storage errors. Once attempts are
// exhausted the failure surfaces as SERVICE_UNAVAILABLE so callers can
// distinguish it from a permanent rejection.
func WithRetry(ctx context.Context, retries int, backoff time.Duration, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.Timeout("storage operation aborted")
			case <-time.After(time.Duration(attempt) * backoff):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
	}

	if errors.Is(lastErr, context.DeadlineExceeded) {
		return apperrors.Timeout("storage operation timed out")
	}
	return apperrors.Unavailable("storage", lastErr)
}
