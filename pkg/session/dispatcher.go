package session

import (
	"context"
	"sync/atomic"
	"time"
)

// Dispatcher pulls queued commands and executes them one at a time through
// the arbiter. The action label is set before each execution so concurrent
// telemetry reads are tagged with the command that is in progress.
type Dispatcher struct {
	queue    *Queue
	arbiter  *Arbiter
	action   *ActionState
	cooldown time.Duration
	attempts int
	popWait  time.Duration
	logf     func(format string, args ...any)
}

// NewDispatcher creates a dispatcher. cooldown is the pause after each
// command to keep a key-mashing operator from flooding the bus.
func NewDispatcher(q *Queue, a *Arbiter, st *ActionState, cooldown time.Duration, logf func(string, ...any)) *Dispatcher {
	if cooldown < 0 {
		cooldown = 0
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Dispatcher{
		queue:    q,
		arbiter:  a,
		action:   st,
		cooldown: cooldown,
		attempts: DefaultWriteAttempts,
		popWait:  200 * time.Millisecond,
		logf:     logf,
	}
}

// SetAttempts overrides the per-command retry budget.
func (d *Dispatcher) SetAttempts(n int) {
	if n >= 1 {
		d.attempts = n
	}
}

// Run executes tasks until stop is set and the queue has drained. A task
// failure is logged and the dispatcher moves on; it never aborts the loop.
func (d *Dispatcher) Run(ctx context.Context, stop *atomic.Bool) {
	for {
		task, ok := d.queue.Pop(d.popWait)
		if !ok {
			// Empty queue: exit only once a stop was requested, so
			// tasks enqueued before shutdown still execute.
			if stop.Load() || ctx.Err() != nil {
				return
			}
			continue
		}

		d.action.Set(task.Label)
		if err := d.arbiter.Execute(ctx, task.Op, d.attempts); err != nil {
			d.logf("%s: %v", task.Label, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.cooldown):
		}
	}
}
