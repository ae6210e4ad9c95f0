package session

import (
	"context"
	"sync"
	"time"
)

// Default retry budgets. Losing a write costs more than serving a stale
// read, so commands get a larger budget than ad-hoc telemetry reads.
const (
	DefaultWriteAttempts = 3
	DefaultReadAttempts  = 2
	DefaultBackoff       = 200 * time.Millisecond
)

// Operation is a single device call executed under the bus lock.
type Operation func(ctx context.Context) error

// Arbiter serializes all traffic on the half-duplex servo bus. At most one
// operation attempt holds the bus at any time; the lock is released during
// retry backoff so other workers are not starved by a flaky exchange.
type Arbiter struct {
	mu      sync.Mutex
	backoff time.Duration
}

// NewArbiter creates an arbiter with the given retry backoff.
// A non-positive backoff selects DefaultBackoff.
func NewArbiter(backoff time.Duration) *Arbiter {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Arbiter{backoff: backoff}
}

// Execute runs op with exclusive bus access, retrying transient faults up
// to maxAttempts total attempts. It returns nil on success, a
// *TransientError once the budget is exhausted, or a *FatalError
// immediately for non-retryable faults.
func (a *Arbiter) Execute(ctx context.Context, op Operation, maxAttempts int) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		a.mu.Lock()
		err := op(ctx)
		a.mu.Unlock()

		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return &FatalError{Err: err}
		}
		last = err

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return &TransientError{Attempts: attempt, Err: last}
			case <-time.After(a.backoff):
			}
		}
	}

	return &TransientError{Attempts: maxAttempts, Err: last}
}
