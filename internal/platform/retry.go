package platform

import (
	"context"
	"fmt"
	"time"
)

// Retry runs op up to attempts times with a fixed delay between
// attempts. The last error is returned wrapped once all attempts are
// exhausted; a nil return from op stops immediately. Context
// cancellation aborts the wait.
func Retry(ctx context.Context, attempts int, delay time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		if last = op(); last == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, last)
}
