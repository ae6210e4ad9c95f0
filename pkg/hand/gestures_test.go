package hand

import (
	"context"
	"sort"
	"testing"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/hipsterbrown/feetech-servo/transports"
)

func TestPreset(t *testing.T) {
	g, ok := Preset("grip")
	if !ok {
		t.Fatal("grip preset missing")
	}
	if g.Name != "grip" {
		t.Errorf("Name = %q", g.Name)
	}
	for _, f := range AllFingers() {
		if g.Pose[f] != 150 {
			t.Errorf("grip %s = %v, want 150", f, g.Pose[f])
		}
	}

	if _, ok := Preset("jazz_hands"); ok {
		t.Error("unknown preset found")
	}
}

func TestGesturesSorted(t *testing.T) {
	names := Gestures()
	if len(names) != 8 {
		t.Fatalf("got %d gestures, want 8", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("gesture names not sorted: %v", names)
	}
}

func TestPresetPosesWellFormed(t *testing.T) {
	known := make(map[Finger]bool)
	for _, f := range AllFingers() {
		known[f] = true
	}

	for _, name := range Gestures() {
		g, _ := Preset(name)
		if len(g.Pose) == 0 {
			t.Errorf("%s: empty pose", name)
		}
		for f, openness := range g.Pose {
			if !known[f] {
				t.Errorf("%s: unknown finger %q", name, f)
			}
			if openness < 0 || openness > 1000 {
				t.Errorf("%s: %s openness %v out of range", name, f, openness)
			}
		}
	}
}

func TestApplyWritesPositionSyncPacket(t *testing.T) {
	mock := &transports.MockTransport{}
	h := newMockHand(t, mock)

	if err := h.OpenAll(context.Background()); err != nil {
		t.Fatalf("OpenAll: %v", err)
	}

	if len(mock.WriteData) < 6 {
		t.Fatal("no packet written")
	}
	if mock.WriteData[4] != feetech.InstSyncWrite {
		t.Errorf("instruction = %#x, want sync write", mock.WriteData[4])
	}
	if mock.WriteData[5] != feetech.RegGoalPosition.Address {
		t.Errorf("address = %#x, want goal position", mock.WriteData[5])
	}
}

func TestApplyWithForceSetsTorqueFirst(t *testing.T) {
	mock := &transports.MockTransport{}
	h := newMockHand(t, mock)

	if err := h.Grip(context.Background(), 700); err != nil {
		t.Fatalf("Grip: %v", err)
	}

	// Two sync writes: torque limit, then positions.
	if len(mock.WriteData) < 12 {
		t.Fatal("expected two packets")
	}
	if mock.WriteData[5] != feetech.RegTorqueLimit.Address {
		t.Errorf("first packet address = %#x, want torque limit", mock.WriteData[5])
	}
}

func TestApplyUnknownFinger(t *testing.T) {
	h := newMockHand(t, &transports.MockTransport{})

	err := h.Apply(context.Background(), Gesture{
		Name: "bad",
		Pose: map[Finger]float64{Finger("tail"): 500},
	})
	if err == nil {
		t.Error("pose with unknown finger accepted")
	}
}

func TestApplyPresetUnknown(t *testing.T) {
	h := newMockHand(t, &transports.MockTransport{})

	if err := h.ApplyPreset(context.Background(), "wave", 0); err == nil {
		t.Error("unknown preset accepted")
	}
}
