package session

// Metric identifies one telemetry channel group read from the device.
type Metric int

// Metric groups, in the fixed column order of the output file.
const (
	MetricPosition Metric = iota
	MetricAngle
	MetricForce
	MetricCurrent
	MetricSpeed
	MetricTemperature
)

func (m Metric) String() string {
	switch m {
	case MetricPosition:
		return "position"
	case MetricAngle:
		return "angle"
	case MetricForce:
		return "force"
	case MetricCurrent:
		return "current"
	case MetricSpeed:
		return "speed"
	case MetricTemperature:
		return "temperature"
	}
	return "unknown"
}

// Metrics returns all metric groups in row order. This order matches the
// column groups written by pkg/record.
func Metrics() []Metric {
	return []Metric{
		MetricPosition,
		MetricAngle,
		MetricForce,
		MetricCurrent,
		MetricSpeed,
		MetricTemperature,
	}
}
