// Package session coordinates operator commands and fixed-rate telemetry
// sampling over a single half-duplex servo bus. One arbiter owns the bus,
// a FIFO dispatcher executes commands, and a sampler keeps the telemetry
// series dense even when individual reads fail.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlonMelo/inspire-hand-control/pkg/record"
)

// State is the session lifecycle phase.
type State int32

const (
	StateInit State = iota
	StateConnected
	StateRunning
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConnected:
		return "connected"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Config holds construction parameters for a Session.
type Config struct {
	Device Device
	Sink   Sink // nil disables sampling

	SampleHz      float64       // default 10
	Cooldown      time.Duration // pause after each command, default 100ms
	Backoff       time.Duration // retry backoff, default 200ms
	WriteAttempts int           // per-command retry budget, default 3
	ReadAttempts  int           // bulk-read retry budget, default 2
	InitialAction string        // default "idle"
}

// Session owns the bus arbiter, the command queue, and both workers. It is
// constructed once and passed by reference; there are no package-level
// singletons. Lifecycle: connected -> running -> draining -> closed, with
// closed terminal and entered exactly once.
type Session struct {
	device  Device
	sink    Sink
	arbiter *Arbiter
	queue   *Queue
	action  *ActionState

	dispatcher *Dispatcher
	sampler    *Sampler

	state        atomic.Int32
	accepting    atomic.Bool
	stopDispatch atomic.Bool
	stopSample   atomic.Bool

	wgDispatch sync.WaitGroup
	wgSample   sync.WaitGroup
	cancel     context.CancelFunc
	closeOnce  sync.Once
	closeErr   error

	logCh chan string
	recCh chan record.Record
}

// New creates a session around an already-open device. The returned session
// is in the connected state; call Start to launch the workers.
func New(cfg Config) (*Session, error) {
	if cfg.Device == nil {
		return nil, fmt.Errorf("session: device is required")
	}
	if cfg.SampleHz <= 0 {
		cfg.SampleHz = 10
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 100 * time.Millisecond
	}
	if cfg.WriteAttempts < 1 {
		cfg.WriteAttempts = DefaultWriteAttempts
	}
	if cfg.ReadAttempts < 1 {
		cfg.ReadAttempts = DefaultReadAttempts
	}
	if cfg.InitialAction == "" {
		cfg.InitialAction = "idle"
	}

	s := &Session{
		device:  cfg.Device,
		sink:    cfg.Sink,
		arbiter: NewArbiter(cfg.Backoff),
		queue:   NewQueue(),
		action:  NewActionState(cfg.InitialAction),
		logCh:   make(chan string, 16),
		recCh:   make(chan record.Record, 1),
	}

	s.dispatcher = NewDispatcher(s.queue, s.arbiter, s.action, cfg.Cooldown, s.logf)
	s.dispatcher.SetAttempts(cfg.WriteAttempts)

	if cfg.Sink != nil {
		s.sampler = NewSampler(cfg.Device, s.arbiter, s.action, cfg.Sink, cfg.SampleHz, s.logf)
		s.sampler.SetAttempts(cfg.ReadAttempts)
		s.sampler.Observe(s.publish)
	}

	s.state.Store(int32(StateConnected))
	return s, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Arbiter exposes the bus arbiter for ad-hoc guarded calls, such as init
// writes issued before Start.
func (s *Session) Arbiter() *Arbiter {
	return s.arbiter
}

// Action returns the label of the most recently started command.
func (s *Session) Action() string {
	return s.action.Get()
}

// Logs returns a channel of human-readable worker messages. Messages are
// dropped when no one is reading.
func (s *Session) Logs() <-chan string {
	return s.logCh
}

// Records returns a channel carrying the latest emitted telemetry record.
// Stale records are replaced when no one is reading.
func (s *Session) Records() <-chan record.Record {
	return s.recCh
}

// Start launches the dispatcher and, when a sink is configured, the
// sampler. It may be called once, from the connected state.
func (s *Session) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateConnected), int32(StateRunning)) {
		return fmt.Errorf("session: cannot start from state %s", s.State())
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.accepting.Store(true)

	s.wgDispatch.Add(1)
	go func() {
		defer s.wgDispatch.Done()
		s.dispatcher.Run(ctx, &s.stopDispatch)
	}()

	if s.sampler != nil {
		s.wgSample.Add(1)
		go func() {
			defer s.wgSample.Done()
			s.sampler.Run(ctx, &s.stopSample)
		}()
	}

	return nil
}

// Enqueue adds a command to the FIFO. It reports false once shutdown has
// begun and the command was not accepted.
func (s *Session) Enqueue(label string, op Operation) bool {
	if !s.accepting.Load() {
		return false
	}
	s.queue.Push(Task{Label: label, Op: op})
	return true
}

// Pending returns the number of commands waiting for dispatch.
func (s *Session) Pending() int {
	return s.queue.Len()
}

// Stop shuts the session down: new enqueues are refused, the dispatcher
// drains every queued command, and only then is the sampler stopped so the
// telemetry series has no gap at the tail. Safe to call more than once;
// later calls return the first result.
func (s *Session) Stop() error {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateDraining))
		s.accepting.Store(false)

		s.stopDispatch.Store(true)
		s.wgDispatch.Wait()

		s.stopSample.Store(true)
		s.wgSample.Wait()

		if s.cancel != nil {
			s.cancel()
		}

		if closer, ok := s.sink.(interface{ Close() error }); ok {
			s.closeErr = closer.Close()
		}

		s.state.Store(int32(StateClosed))
	})
	return s.closeErr
}

func (s *Session) logf(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case s.logCh <- msg:
	default:
		// Drop if channel full
	}
}

func (s *Session) publish(rec record.Record) {
	select {
	case s.recCh <- rec:
	default:
		// Drop old record if channel full, replace with new
		select {
		case <-s.recCh:
		default:
		}
		select {
		case s.recCh <- rec:
		default:
		}
	}
}
