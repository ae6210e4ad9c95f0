package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/AlonMelo/inspire-hand-control/pkg/record"
)

// Sink receives one formatted telemetry row per sampling tick.
// pkg/record.Writer is the production implementation.
type Sink interface {
	Append(rec record.Record) error
}

// Sampler reads every metric group at a fixed rate and emits exactly one
// record per tick, marking unreadable channels instead of skipping rows.
// All device access goes through the arbiter.
type Sampler struct {
	device   Device
	arbiter  *Arbiter
	action   *ActionState
	sink     Sink
	period   time.Duration
	attempts int
	logf     func(format string, args ...any)
	observe  func(rec record.Record)
}

// NewSampler creates a sampler running at rate samples per second.
func NewSampler(dev Device, a *Arbiter, st *ActionState, sink Sink, rate float64, logf func(string, ...any)) *Sampler {
	period := 100 * time.Millisecond
	if rate > 0 {
		period = time.Duration(float64(time.Second) / rate)
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Sampler{
		device:   dev,
		arbiter:  a,
		action:   st,
		sink:     sink,
		period:   period,
		attempts: DefaultReadAttempts,
		logf:     logf,
	}
}

// SetAttempts overrides the bulk-read retry budget.
func (s *Sampler) SetAttempts(n int) {
	if n >= 1 {
		s.attempts = n
	}
}

// Observe registers a callback invoked with every emitted record, after it
// has been handed to the sink. Used by the TUI for live charts.
func (s *Sampler) Observe(fn func(rec record.Record)) {
	s.observe = fn
}

// Run samples until stop is set. Overrun ticks are not caught up: the loop
// sleeps max(0, period-elapsed) and never bursts.
func (s *Sampler) Run(ctx context.Context, stop *atomic.Bool) {
	for !stop.Load() && ctx.Err() == nil {
		start := time.Now()

		rec := s.sample(ctx, start)
		if err := s.sink.Append(rec); err != nil {
			s.logf("append row: %v", err)
		}
		if s.observe != nil {
			s.observe(rec)
		}

		if d := s.period - time.Since(start); d > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d):
			}
		}
	}
}

func (s *Sampler) sample(ctx context.Context, ts time.Time) record.Record {
	joints := len(s.device.Joints())
	metrics := Metrics()
	values := make([][]record.Value, len(metrics))
	for i, m := range metrics {
		values[i] = s.readMetric(ctx, m, joints)
	}
	return record.Record{
		Timestamp: ts,
		Action:    s.action.Get(),
		Values:    values,
	}
}

// readMetric reads one metric group. It tries a single bulk exchange when
// the device supports it, then degrades to independently guarded per-joint
// reads so one dead joint costs only its own column.
func (s *Sampler) readMetric(ctx context.Context, m Metric, joints int) []record.Value {
	if s.device.SupportsBulkRead() {
		var vals []float64
		err := s.arbiter.Execute(ctx, func(ctx context.Context) error {
			var e error
			vals, e = s.device.ReadBulk(ctx, m)
			return e
		}, s.attempts)
		if err == nil && len(vals) == joints {
			out := make([]record.Value, joints)
			for i, v := range vals {
				out[i] = record.Value{F: v, OK: true}
			}
			return out
		}
		if err != nil {
			s.logf("bulk %s read: %v", m, err)
		} else {
			s.logf("bulk %s read: got %d of %d values", m, len(vals), joints)
		}
	}

	out := make([]record.Value, joints)
	for j := 0; j < joints; j++ {
		var v float64
		err := s.arbiter.Execute(ctx, func(ctx context.Context) error {
			var e error
			v, e = s.device.ReadJoint(ctx, m, j)
			return e
		}, 1)
		if err != nil {
			continue // leave the unavailable marker for this joint only
		}
		out[j] = record.Value{F: v, OK: true}
	}
	return out
}
