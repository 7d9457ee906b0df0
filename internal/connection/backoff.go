package connection

import "time"

// Default backoff curve: 1s, 2s, 4s, ... capped at 30s.
const (
	DefaultBaseDelay = 1 * time.Second
	DefaultMaxDelay  = 30 * time.Second
)

// Backoff returns the reconnect delay for the given attempt number:
// min(base * 2^attempt, max). Doubling with an early exit keeps any
// attempt number safe from shift overflow.
func Backoff(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if max <= 0 {
		max = DefaultMaxDelay
	}

	d := base
	for i := 0; i < attempt; i++ {
		d <<= 1
		if d <= 0 || d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
