package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/AlonMelo/inspire-hand-control/pkg/record"
)

// errTimeout mimics a transient fault as the device layer would surface it.
var errTimeout = fmt.Errorf("read thumb: %w", feetech.ErrTimeout)

// fakeDevice is a fault-injectable in-memory device. It fails the test
// invariant (overlap) whenever two bus calls run concurrently, which the
// arbiter must never allow.
type fakeDevice struct {
	joints   []string
	bulkRead bool

	mu      sync.Mutex
	inCall  int
	overlap bool
	bulks   int
	singles int

	bulkFn  func(m Metric) ([]float64, error)
	jointFn func(m Metric, j int) (float64, error)
}

func newFakeDevice() *fakeDevice {
	d := &fakeDevice{
		joints:   []string{"thumb", "index", "middle", "ring", "little"},
		bulkRead: true,
	}
	d.bulkFn = func(m Metric) ([]float64, error) {
		vals := make([]float64, len(d.joints))
		for i := range vals {
			vals[i] = float64(int(m)*100 + i)
		}
		return vals, nil
	}
	d.jointFn = func(m Metric, j int) (float64, error) {
		return float64(int(m)*100 + j), nil
	}
	return d
}

func (d *fakeDevice) enter() {
	d.mu.Lock()
	d.inCall++
	if d.inCall > 1 {
		d.overlap = true
	}
	d.mu.Unlock()
}

func (d *fakeDevice) exit() {
	d.mu.Lock()
	d.inCall--
	d.mu.Unlock()
}

func (d *fakeDevice) sawOverlap() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.overlap
}

func (d *fakeDevice) bulkCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bulks
}

func (d *fakeDevice) Joints() []string { return d.joints }

func (d *fakeDevice) SupportsBulkRead() bool { return d.bulkRead }

func (d *fakeDevice) ReadBulk(ctx context.Context, m Metric) ([]float64, error) {
	d.enter()
	defer d.exit()
	d.mu.Lock()
	d.bulks++
	d.mu.Unlock()
	return d.bulkFn(m)
}

func (d *fakeDevice) ReadJoint(ctx context.Context, m Metric, j int) (float64, error) {
	d.enter()
	defer d.exit()
	d.mu.Lock()
	d.singles++
	d.mu.Unlock()
	return d.jointFn(m, j)
}

// memSink collects records in memory.
type memSink struct {
	mu     sync.Mutex
	rows   []record.Record
	err    error
	closed int
}

func (s *memSink) Append(rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, rec)
	return nil
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *memSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *memSink) snapshot() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]record.Record, len(s.rows))
	copy(out, s.rows)
	return out
}
