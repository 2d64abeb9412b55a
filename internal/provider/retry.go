package provider

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// Retry runs op with exponential backoff until it succeeds, returns a
// backoff.Permanent error, exhausts maxRetries or ctx is done.
func Retry(ctx context.Context, maxRetries uint64, op backoff.Operation) error {
	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			maxRetries),
		ctx))
}
