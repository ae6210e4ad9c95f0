// Package hand drives a five-finger robotic hand built from Feetech STS
// bus servos, one servo per finger.
package hand

// Finger identifies one finger of the hand.
type Finger string

// Finger names, in servo ID order (IDs 1-5 by default).
const (
	Thumb  Finger = "thumb"
	Index  Finger = "index"
	Middle Finger = "middle"
	Ring   Finger = "ring"
	Little Finger = "little"
)

// AllFingers returns all fingers in bus order.
func AllFingers() []Finger {
	return []Finger{Thumb, Index, Middle, Ring, Little}
}

// FingerNames returns the finger names as strings, in bus order.
func FingerNames() []string {
	fingers := AllFingers()
	names := make([]string, len(fingers))
	for i, f := range fingers {
		names[i] = string(f)
	}
	return names
}
