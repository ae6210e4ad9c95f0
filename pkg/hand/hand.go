package hand

import (
	"context"
	"fmt"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"

	"github.com/AlonMelo/inspire-hand-control/pkg/session"
)

// Hand represents a five-finger hand on a single Feetech bus. It implements
// session.Device: bulk getters read one register group for all fingers in a
// single sync-read exchange, per-finger getters read one register.
type Hand struct {
	bus      *feetech.Bus
	group    *feetech.ServoGroup
	cal      Calibration
	ids      []int
	bulkRead bool
	speed    int
}

// Open opens the serial bus from the config and initializes the hand.
// Bulk-read support is resolved once here, from the protocol version, and
// never re-probed.
func Open(cfg *Config) (*Hand, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: cfg.Baud,
		Protocol: feetech.ProtocolSTS,
		Timeout:  time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	h := NewWithBus(bus, cfg.Calibration)
	if cfg.DefaultSpeed > 0 {
		h.speed = cfg.DefaultSpeed
	}
	return h, nil
}

// NewWithBus wraps an already-open bus. Used by tests with mock transports
// and by setup, which opens the bus itself while scanning.
func NewWithBus(bus *feetech.Bus, cal Calibration) *Hand {
	if len(cal) == 0 {
		cal = DefaultCalibration()
	}
	ids := cal.IDs()
	return &Hand{
		bus:      bus,
		group:    feetech.NewServoGroupByIDs(bus, ids...),
		cal:      cal,
		ids:      ids,
		bulkRead: bus.Protocol().Version() == feetech.ProtocolSTS,
		speed:    800,
	}
}

// Close closes the hand's bus connection.
func (h *Hand) Close() error {
	return h.bus.Close()
}

// Joints returns the finger names in bus order.
func (h *Hand) Joints() []string {
	return FingerNames()
}

// SupportsBulkRead reports whether the bus protocol supports sync reads.
func (h *Hand) SupportsBulkRead() bool {
	return h.bulkRead
}

// Enable enables torque on all fingers.
func (h *Hand) Enable(ctx context.Context) error {
	return h.group.EnableAll(ctx)
}

// Disable disables torque on all fingers.
func (h *Hand) Disable(ctx context.Context) error {
	return h.group.DisableAll(ctx)
}

// Wake probes the hand with position reads until one succeeds. Bus servos
// need a moment after power-up before they answer reliably.
func (h *Hand) Wake(ctx context.Context, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if _, err = h.ReadBulk(ctx, session.MetricPosition); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("wake probe: %w", err)
}

// metricRegister maps a metric group to its servo register.
func metricRegister(m session.Metric) feetech.Register {
	switch m {
	case session.MetricAngle:
		return feetech.RegPresentPosition
	case session.MetricForce:
		return feetech.RegPresentLoad
	case session.MetricCurrent:
		return feetech.RegPresentCurrent
	case session.MetricSpeed:
		return feetech.RegPresentVelocity
	case session.MetricTemperature:
		return feetech.RegPresentTemp
	default:
		return feetech.RegPresentPosition
	}
}

// decode converts raw register bytes to the metric's reported unit:
// positions in ticks, angles in degrees, temperatures in degrees Celsius,
// loads and velocities sign-decoded.
func (h *Hand) decode(m session.Metric, data []byte) float64 {
	reg := metricRegister(m)

	var raw int
	if reg.Size == 1 {
		raw = int(data[0])
	} else {
		raw = int(h.bus.Protocol().DecodeWord(data))
	}
	raw = decodeSignMagnitude(raw, reg.SignBit)

	if m == session.MetricAngle {
		return Degrees(raw)
	}
	return float64(raw)
}

// ReadBulk reads one metric group for all fingers in a single sync-read
// exchange. The result always has one value per finger, in bus order; a
// short or missing response is an error, never a shrunken slice.
func (h *Hand) ReadBulk(ctx context.Context, m session.Metric) ([]float64, error) {
	reg := metricRegister(m)
	data, err := h.bus.SyncRead(ctx, reg.Address, reg.Size, h.ids)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(h.ids))
	for i, id := range h.ids {
		d, ok := data[id]
		if !ok || len(d) < reg.Size {
			return nil, fmt.Errorf("servo %d: %w", id, feetech.ErrInvalidPacket)
		}
		out[i] = h.decode(m, d)
	}
	return out, nil
}

// ReadJoint reads a single finger's channel.
func (h *Hand) ReadJoint(ctx context.Context, m session.Metric, joint int) (float64, error) {
	if joint < 0 || joint >= len(h.ids) {
		return 0, fmt.Errorf("joint index %d out of range", joint)
	}
	reg := metricRegister(m)
	data, err := h.bus.ReadRegister(ctx, h.ids[joint], reg.Address, reg.Size)
	if err != nil {
		return 0, err
	}
	if len(data) < reg.Size {
		return 0, fmt.Errorf("servo %d: %w", h.ids[joint], feetech.ErrInvalidPacket)
	}
	return h.decode(m, data), nil
}

// SetAllSpeeds sets the movement speed for every finger (0-1000) and
// remembers it for subsequent gestures.
func (h *Hand) SetAllSpeeds(ctx context.Context, speed int) error {
	speed = clamp(speed)
	servoData := make(map[int][]byte, len(h.ids))
	for _, id := range h.ids {
		servoData[id] = h.bus.Protocol().EncodeWord(uint16(speed))
	}
	if err := h.bus.SyncWrite(ctx, feetech.RegGoalVelocity.Address, feetech.RegGoalVelocity.Size, servoData); err != nil {
		return fmt.Errorf("set speeds: %w", err)
	}
	h.speed = speed
	return nil
}

// SetAllForces sets the torque limit for every finger (0-1000).
func (h *Hand) SetAllForces(ctx context.Context, force int) error {
	force = clamp(force)
	servoData := make(map[int][]byte, len(h.ids))
	for _, id := range h.ids {
		servoData[id] = h.bus.Protocol().EncodeWord(uint16(force))
	}
	if err := h.bus.SyncWrite(ctx, feetech.RegTorqueLimit.Address, feetech.RegTorqueLimit.Size, servoData); err != nil {
		return fmt.Errorf("set forces: %w", err)
	}
	return nil
}

// SetFingerSpeed sets the movement speed for a single finger (0-1000).
func (h *Hand) SetFingerSpeed(ctx context.Context, f Finger, speed int) error {
	fc, ok := h.cal[f]
	if !ok {
		return fmt.Errorf("unknown finger %q", f)
	}
	data := h.bus.Protocol().EncodeWord(uint16(clamp(speed)))
	return h.bus.WriteRegister(ctx, fc.ID, feetech.RegGoalVelocity.Address, data)
}

// SetFingerForce sets the torque limit for a single finger (0-1000).
func (h *Hand) SetFingerForce(ctx context.Context, f Finger, force int) error {
	fc, ok := h.cal[f]
	if !ok {
		return fmt.Errorf("unknown finger %q", f)
	}
	data := h.bus.Protocol().EncodeWord(uint16(clamp(force)))
	return h.bus.WriteRegister(ctx, fc.ID, feetech.RegTorqueLimit.Address, data)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 1000 {
		return 1000
	}
	return v
}

func decodeSignMagnitude(value, signBit int) int {
	if signBit == 0 {
		return value
	}
	signMask := 1 << signBit
	if value&signMask != 0 {
		return -(value & (signMask - 1))
	}
	return value
}
