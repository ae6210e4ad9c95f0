package hand

import (
	"context"
	"fmt"
	"sort"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// Gesture is a named preset pose. Pose maps each finger to a target
// openness (0 closed, 1000 open); fingers absent from the map are left
// where they are. Force, when positive, sets the torque limit before the
// move.
type Gesture struct {
	Name  string
	Pose  map[Finger]float64
	Force int
}

var presets = map[string]Gesture{
	"open_all": {
		Name: "open_all",
		Pose: map[Finger]float64{Thumb: 1000, Index: 1000, Middle: 1000, Ring: 1000, Little: 1000},
	},
	"close_all": {
		Name: "close_all",
		Pose: map[Finger]float64{Thumb: 0, Index: 0, Middle: 0, Ring: 0, Little: 0},
	},
	"grip": {
		Name: "grip",
		Pose: map[Finger]float64{Thumb: 150, Index: 150, Middle: 150, Ring: 150, Little: 150},
	},
	"pinch": {
		Name: "pinch",
		Pose: map[Finger]float64{Thumb: 250, Index: 250, Middle: 1000, Ring: 1000, Little: 1000},
	},
	"point": {
		Name: "point",
		Pose: map[Finger]float64{Thumb: 0, Index: 1000, Middle: 0, Ring: 0, Little: 0},
	},
	"thumbs_up": {
		Name: "thumbs_up",
		Pose: map[Finger]float64{Thumb: 1000, Index: 0, Middle: 0, Ring: 0, Little: 0},
	},
	"cool": {
		Name: "cool",
		Pose: map[Finger]float64{Thumb: 1000, Index: 0, Middle: 0, Ring: 0, Little: 1000},
	},
	"hook_4": {
		Name: "hook_4",
		Pose: map[Finger]float64{Thumb: 1000, Index: 300, Middle: 300, Ring: 300, Little: 300},
	},
}

// Gestures returns all preset names, sorted.
func Gestures() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset looks up a gesture by name.
func Preset(name string) (Gesture, bool) {
	g, ok := presets[name]
	return g, ok
}

// Apply moves the hand into the gesture's pose using the current speed
// setting, via a single sync write.
func (h *Hand) Apply(ctx context.Context, g Gesture) error {
	if g.Force > 0 {
		if err := h.SetAllForces(ctx, g.Force); err != nil {
			return fmt.Errorf("%s: %w", g.Name, err)
		}
	}

	positions := make(feetech.PositionMap, len(g.Pose))
	speeds := make(feetech.PositionMap, len(g.Pose))
	for f, openness := range g.Pose {
		fc, ok := h.cal[f]
		if !ok {
			return fmt.Errorf("%s: unknown finger %q", g.Name, f)
		}
		positions[fc.ID] = fc.Ticks(openness)
		speeds[fc.ID] = h.speed
	}

	if err := h.group.SetPositionsWithSpeed(ctx, positions, speeds); err != nil {
		return fmt.Errorf("%s: %w", g.Name, err)
	}
	return nil
}

// ApplyPreset applies a named preset with an optional force override.
func (h *Hand) ApplyPreset(ctx context.Context, name string, force int) error {
	g, ok := Preset(name)
	if !ok {
		return fmt.Errorf("unknown gesture %q", name)
	}
	if force > 0 {
		g.Force = force
	}
	return h.Apply(ctx, g)
}

// Convenience wrappers for the stock gestures.

// Grip closes all fingers around an object with the given force limit.
func (h *Hand) Grip(ctx context.Context, force int) error {
	return h.ApplyPreset(ctx, "grip", force)
}

// OpenAll fully opens the hand.
func (h *Hand) OpenAll(ctx context.Context) error {
	return h.ApplyPreset(ctx, "open_all", 0)
}

// CloseAll fully closes the hand.
func (h *Hand) CloseAll(ctx context.Context) error {
	return h.ApplyPreset(ctx, "close_all", 0)
}

// Pinch brings thumb and index together with the given force limit.
func (h *Hand) Pinch(ctx context.Context, force int) error {
	return h.ApplyPreset(ctx, "pinch", force)
}

// Point extends the index finger.
func (h *Hand) Point(ctx context.Context) error {
	return h.ApplyPreset(ctx, "point", 0)
}

// ThumbsUp extends the thumb.
func (h *Hand) ThumbsUp(ctx context.Context) error {
	return h.ApplyPreset(ctx, "thumbs_up", 0)
}

// Cool makes the shaka sign.
func (h *Hand) Cool(ctx context.Context) error {
	return h.ApplyPreset(ctx, "cool", 0)
}

// Hook4 curls the four fingers, thumb out.
func (h *Hand) Hook4(ctx context.Context) error {
	return h.ApplyPreset(ctx, "hook_4", 0)
}
