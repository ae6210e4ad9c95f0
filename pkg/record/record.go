// Package record formats and persists telemetry rows. The schema is fixed
// for the whole session: a timestamp, the current action label, then six
// metric groups with one column per joint.
package record

import (
	"strconv"
	"time"
)

// TimestampLayout is local time with millisecond precision, matching the
// resolution of the sampling clock.
const TimestampLayout = "2006-01-02T15:04:05.000"

// metricPrefixes are the column-group suffixes, in row order. This order
// matches session.Metrics().
var metricPrefixes = []string{"pos", "angle", "force", "current", "speed", "temp"}

// Groups returns the number of metric groups in a row.
func Groups() int {
	return len(metricPrefixes)
}

// Value is one telemetry channel sample. OK is false when the channel was
// unavailable for this tick; the column is then left empty so the row
// keeps its full arity.
type Value struct {
	F  float64
	OK bool
}

// Record is one immutable telemetry row: Values[group][joint], where group
// follows the fixed metric order and joint follows the header order.
type Record struct {
	Timestamp time.Time
	Action    string
	Values    [][]Value
}

// Header builds the CSV header for the given joint names:
// timestamp, action, then <joint>_<prefix> for every group.
func Header(joints []string) []string {
	header := make([]string, 0, 2+len(metricPrefixes)*len(joints))
	header = append(header, "timestamp", "action")
	for _, prefix := range metricPrefixes {
		for _, j := range joints {
			header = append(header, j+"_"+prefix)
		}
	}
	return header
}

// Row formats the record as one CSV row matching Header.
func (r Record) Row() []string {
	n := 2
	for _, group := range r.Values {
		n += len(group)
	}
	row := make([]string, 0, n)
	row = append(row, r.Timestamp.Format(TimestampLayout), r.Action)
	for _, group := range r.Values {
		for _, v := range group {
			if !v.OK {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v.F, 'f', -1, 64))
		}
	}
	return row
}
