package classifier

import (
	"context"
	"time"
)

// RetryPolicy is the transient-failure policy as a first-class value, so
// retry semantics can be tested independent of the transport
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy matches the backend's observed recovery behavior
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 6,
	Delay:       12 * time.Second,
}

// sleep waits for the policy delay or until the context is cancelled
func (p RetryPolicy) sleep(ctx context.Context) error {
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
