package session

import (
	"sync"
	"time"
)

// Task is one operator command: a label for the telemetry stream and the
// device call to execute. A task is executed at most once; retries inside
// the arbiter count as a single logical execution.
type Task struct {
	Label string
	Op    Operation
}

// Queue is an unbounded thread-safe FIFO shared between the event source
// and the dispatcher. Push never blocks; Pop waits a bounded time so the
// dispatcher can interleave shutdown checks.
type Queue struct {
	mu    sync.Mutex
	tasks []Task
	wake  chan struct{}
}

// NewQueue creates an empty command queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends a task to the queue without blocking.
func (q *Queue) Push(t Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest task, waiting up to timeout for one
// to arrive. It returns false if the queue stayed empty.
func (q *Queue) Pop(timeout time.Duration) (Task, bool) {
	deadline := time.Now().Add(timeout)
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			t := q.tasks[0]
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			return t, true
		}
		q.mu.Unlock()

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Task{}, false
		}

		timer := time.NewTimer(remaining)
		select {
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
