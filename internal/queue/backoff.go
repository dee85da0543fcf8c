package queue

import "time"

const (
	backoffBase = 2 * time.Second
	backoffCap  = 60 * time.Second
)

// Backoff returns the delay imposed before attempt n is retried:
// min(60s, 2s * 2^n).
func Backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	delay := backoffBase
	for i := 0; i < n; i++ {
		delay *= 2
		if delay >= backoffCap {
			return backoffCap
		}
	}
	if delay > backoffCap {
		return backoffCap
	}
	return delay
}
