package physics

import "math"

// State is the dynamic state of the pendulum in generalized coordinates.
// It is a plain value: assigning it copies it.
type State struct {
	Theta1, Theta2 float64 // rad, from the downward vertical
	Omega1, Omega2 float64 // rad/s
}

// DefaultState releases both rods from the horizontal at rest.
func DefaultState() State {
	return State{Theta1: math.Pi / 2, Theta2: math.Pi / 2}
}

// StateFromDegrees builds a resting state from two angles in degrees.
func StateFromDegrees(theta1, theta2 float64) State {
	return State{Theta1: toRadians(theta1), Theta2: toRadians(theta2)}
}

// Update replaces all four fields at once.
func (s *State) Update(theta1, theta2, omega1, omega2 float64) {
	*s = State{Theta1: theta1, Theta2: theta2, Omega1: omega1, Omega2: omega2}
}

func (s State) Theta1Degrees() float64 { return toDegrees(s.Theta1) }
func (s State) Theta2Degrees() float64 { return toDegrees(s.Theta2) }

func (s State) IsFinite() bool {
	for _, v := range [4]float64{s.Theta1, s.Theta2, s.Omega1, s.Omega2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Slice returns the state as [theta1, theta2, omega1, omega2].
func (s State) Slice() []float64 {
	return []float64{s.Theta1, s.Theta2, s.Omega1, s.Omega2}
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }
