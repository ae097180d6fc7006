package service

import (
	"context"
	"time"
)

const (
	retryAttempts = 2
	retryBackoff  = 500 * time.Millisecond
)

// withRetry runs fn up to retryAttempts times with a short backoff between
// attempts. Provider calls here are idempotent reads, so a blind retry is safe.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt+1 < retryAttempts {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
