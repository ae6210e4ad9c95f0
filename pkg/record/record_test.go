package record

import (
	"testing"
	"time"
)

var testJoints = []string{"thumb", "index", "middle", "ring", "little"}

func TestHeader(t *testing.T) {
	h := Header(testJoints)

	if want := 2 + Groups()*len(testJoints); len(h) != want {
		t.Fatalf("header has %d columns, want %d", len(h), want)
	}
	if h[0] != "timestamp" || h[1] != "action" {
		t.Errorf("header starts %q %q, want timestamp action", h[0], h[1])
	}
	if h[2] != "thumb_pos" {
		t.Errorf("first data column = %q, want thumb_pos", h[2])
	}
	if got := h[len(h)-1]; got != "little_temp" {
		t.Errorf("last column = %q, want little_temp", got)
	}
}

func fullRecord() Record {
	values := make([][]Value, Groups())
	for g := range values {
		values[g] = make([]Value, len(testJoints))
		for j := range values[g] {
			values[g][j] = Value{F: float64(g*100 + j), OK: true}
		}
	}
	return Record{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.Local),
		Action:    "grip",
		Values:    values,
	}
}

func TestRecordRow(t *testing.T) {
	row := fullRecord().Row()

	if want := 2 + Groups()*len(testJoints); len(row) != want {
		t.Fatalf("row has %d columns, want %d", len(row), want)
	}
	if row[0] != "2025-03-14T09:26:53.589" {
		t.Errorf("timestamp = %q", row[0])
	}
	if row[1] != "grip" {
		t.Errorf("action = %q, want grip", row[1])
	}
	if row[2] != "0" {
		t.Errorf("first value = %q, want 0", row[2])
	}
	if got := row[len(row)-1]; got != "504" {
		t.Errorf("last value = %q, want 504", got)
	}
}

func TestRecordRowUnavailableColumnsStayEmpty(t *testing.T) {
	rec := fullRecord()
	rec.Values[2][3] = Value{} // force/ring dropped this tick

	row := rec.Row()
	if want := 2 + Groups()*len(testJoints); len(row) != want {
		t.Fatalf("row has %d columns, want %d (arity must not shrink)", len(row), want)
	}

	idx := 2 + 2*len(testJoints) + 3
	if row[idx] != "" {
		t.Errorf("dropped column = %q, want empty", row[idx])
	}
	if row[idx-1] == "" || row[idx+1] == "" {
		t.Error("neighbouring columns emptied as well")
	}
}

func TestRecordRowFractionalValues(t *testing.T) {
	rec := fullRecord()
	rec.Values[1][0] = Value{F: 87.890625, OK: true}

	row := rec.Row()
	if got := row[2+len(testJoints)]; got != "87.890625" {
		t.Errorf("angle = %q, want 87.890625", got)
	}
}
