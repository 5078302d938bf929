package doze

import (
	"fmt"
	"time"
)

// Retry budget used when none is configured.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// Policy is a fixed-delay retry budget for one transition.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	Delay       time.Duration // pause between a failed verification and the next attempt
}

// DefaultPolicy returns 3 attempts with a 1s delay.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultRetryDelay}
}

// NewPolicy builds a policy from raw config values; non-positive attempts and
// negative delays fall back to the defaults.
func NewPolicy(maxAttempts int, delay time.Duration) Policy {
	p := DefaultPolicy()
	if maxAttempts > 0 {
		p.MaxAttempts = maxAttempts
	}
	if delay >= 0 {
		p.Delay = delay
	}
	return p
}

// Validate ensures the policy can be applied.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >=1")
	}
	if p.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	return nil
}
