package hand

// ticksPerRev is the position resolution of the STS servos (12-bit).
const ticksPerRev = 4096.0

// FingerCalibration maps raw servo ticks to the hand's openness scale for
// a single finger. Openness runs from 0 (fully closed) to 1000 (fully
// open); RangeMin is the closed position, RangeMax the open position.
type FingerCalibration struct {
	ID       int `json:"id"`
	RangeMin int `json:"range_min"`
	RangeMax int `json:"range_max"`
}

// Openness converts a raw servo position to the 0-1000 openness scale.
func (c FingerCalibration) Openness(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	return float64(raw-c.RangeMin) / rangeSize * 1000
}

// Ticks converts an openness value (clamped to 0-1000) to raw servo ticks.
func (c FingerCalibration) Ticks(openness float64) int {
	if openness < 0 {
		openness = 0
	}
	if openness > 1000 {
		openness = 1000
	}
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int(openness/1000*rangeSize) + c.RangeMin
}

// Degrees converts a raw servo position to shaft degrees.
func Degrees(raw int) float64 {
	return float64(raw) * 360.0 / ticksPerRev
}

// Calibration holds per-finger calibration, keyed by finger name.
type Calibration map[Finger]FingerCalibration

// DefaultCalibration assigns servo IDs 1-5 in finger order with the full
// mechanical range. Run "handctl setup" to record real ranges.
func DefaultCalibration() Calibration {
	cal := make(Calibration, 5)
	for i, f := range AllFingers() {
		cal[f] = FingerCalibration{ID: i + 1, RangeMin: 0, RangeMax: 4095}
	}
	return cal
}

// IDs returns the servo IDs in finger order.
func (c Calibration) IDs() []int {
	ids := make([]int, 0, len(c))
	// Use AllFingers() to ensure consistent ordering
	for _, f := range AllFingers() {
		if fc, ok := c[f]; ok {
			ids = append(ids, fc.ID)
		}
	}
	return ids
}

// ByID returns the finger name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (Finger, FingerCalibration, bool) {
	for f, fc := range c {
		if fc.ID == id {
			return f, fc, true
		}
	}
	return "", FingerCalibration{}, false
}
