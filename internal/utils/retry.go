package utils

import (
	"fmt"
	"time"
)

const maxRetryDelay = 5 * time.Second

// Retry runs action up to attempts times, doubling delay after every failed
// attempt. check, when set, decides whether an error is worth another try;
// a nil check retries every error.
func Retry(attempts int, delay time.Duration, action func() error, check func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
		}

		lastErr = action()
		if lastErr == nil {
			return nil
		}
		if check != nil && !check(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
