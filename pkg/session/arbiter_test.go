package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

func TestArbiter_SuccessFirstAttempt(t *testing.T) {
	a := NewArbiter(time.Millisecond)

	calls := 0
	err := a.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, 3)

	if err != nil {
		t.Fatalf("Execute returned %v", err)
	}
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestArbiter_TransientRetriedOnce(t *testing.T) {
	a := NewArbiter(time.Millisecond)

	// A transient fault on attempt 1 that succeeds on attempt 2 must
	// produce exactly one observable device effect.
	calls := 0
	effects := 0
	err := a.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errTimeout
		}
		effects++
		return nil
	}, 3)

	if err != nil {
		t.Fatalf("Execute returned %v", err)
	}
	if calls != 2 {
		t.Errorf("op called %d times, want 2", calls)
	}
	if effects != 1 {
		t.Errorf("observed %d device effects, want 1", effects)
	}
}

func TestArbiter_TransientExhaustsBudget(t *testing.T) {
	a := NewArbiter(time.Millisecond)

	calls := 0
	err := a.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return errTimeout
	}, 3)

	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}

	var terr *TransientError
	if !errors.As(err, &terr) {
		t.Fatalf("Execute returned %T (%v), want *TransientError", err, err)
	}
	if terr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", terr.Attempts)
	}
	if !errors.Is(err, feetech.ErrTimeout) {
		t.Errorf("cause %v not preserved", err)
	}
}

func TestArbiter_FatalNotRetried(t *testing.T) {
	a := NewArbiter(time.Millisecond)

	calls := 0
	err := a.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return feetech.ErrBusClosed
	}, 5)

	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	var ferr *FatalError
	if !errors.As(err, &ferr) {
		t.Fatalf("Execute returned %T (%v), want *FatalError", err, err)
	}
}

func TestArbiter_MinimumOneAttempt(t *testing.T) {
	a := NewArbiter(time.Millisecond)

	calls := 0
	err := a.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, 0)
	if err != nil || calls != 1 {
		t.Errorf("err=%v calls=%d, want nil/1", err, calls)
	}
}

func TestArbiter_MutualExclusion(t *testing.T) {
	a := NewArbiter(time.Millisecond)

	var inFlight atomic.Int32
	var violations atomic.Int32

	op := func(ctx context.Context) error {
		if inFlight.Add(1) > 1 {
			violations.Add(1)
		}
		time.Sleep(100 * time.Microsecond)
		inFlight.Add(-1)
		return nil
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if err := a.Execute(context.Background(), op, 1); err != nil {
					t.Errorf("Execute: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if n := violations.Load(); n > 0 {
		t.Errorf("%d concurrent bus calls observed, want 0", n)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{feetech.ErrTimeout, true},
		{feetech.ErrNoResponse, true},
		{feetech.ErrInvalidPacket, true},
		{errTimeout, true}, // wrapped
		{feetech.ErrBusClosed, false},
		{errors.New("servo on fire"), false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
