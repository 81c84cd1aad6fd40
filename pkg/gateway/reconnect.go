package gateway

import "time"

// ReconnectPolicy decides whether and when a dropped connection is redialed.
// The zero value disables reconnection entirely, which is the shipped
// default: redials happen only when an operator injects an explicit policy.
type ReconnectPolicy struct {
	// MaxAttempts is the number of consecutive redials before giving up.
	// Zero disables reconnection.
	MaxAttempts int

	// Backoff maps the 1-based attempt number to a delay. Required when
	// MaxAttempts is non-zero.
	Backoff func(attempt int) time.Duration
}

// Enabled reports whether the policy permits any reconnection at all.
func (p ReconnectPolicy) Enabled() bool {
	return p.MaxAttempts > 0 && p.Backoff != nil
}

// Delay returns the wait before the given 1-based attempt, or false when the
// policy is exhausted or disabled.
func (p ReconnectPolicy) Delay(attempt int) (time.Duration, bool) {
	if !p.Enabled() || attempt > p.MaxAttempts {
		return 0, false
	}
	return p.Backoff(attempt), true
}

// ExponentialBackoff returns a backoff function doubling from base up to max.
func ExponentialBackoff(base, max time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if d >= max {
				return max
			}
		}
		if d > max {
			return max
		}
		return d
	}
}
