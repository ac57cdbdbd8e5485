package physics

import "math"

// Model evaluates the double pendulum equations of motion for a fixed
// parameter set. It holds no dynamic state and is safe to share.
type Model struct {
	params Params
}

func NewModel(p Params) *Model {
	return &Model{params: p}
}

func (m *Model) Params() Params { return m.params }

// Accelerations returns the angular accelerations of both rods.
// A vanishing denominator yields Inf or NaN, which is returned as is.
func (m *Model) Accelerations(s State) (alpha1, alpha2 float64) {
	g, m1, m2, l1, l2 := m.params.Gravity, m.params.M1, m.params.M2, m.params.L1, m.params.L2
	w1sq, w2sq := s.Omega1*s.Omega1, s.Omega2*s.Omega2

	delta := s.Theta2 - s.Theta1
	sinD, cosD := math.Sincos(delta)

	num1 := -g*(2*m1+m2)*math.Sin(s.Theta1) -
		m2*g*math.Sin(s.Theta1-2*s.Theta2) -
		2*sinD*m2*(w2sq*l2+w1sq*l1*cosD)

	num2 := 2 * sinD * (w1sq*l1*(m1+m2) +
		g*(m1+m2)*math.Cos(s.Theta1) +
		w2sq*l2*m2*cosD)

	den := 2*m1 + m2 - m2*math.Cos(2*delta)

	return num1 / (l1 * den), num2 / (l2 * den)
}

// KineticEnergy keeps the bob velocity terms of the reference
// implementation as written: the vertical velocity of the first bob is
// taken from the second rod, and both vertical components use cosines.
// Changing it changes every reported energy value.
func (m *Model) KineticEnergy(s State) float64 {
	m1, m2, l1, l2 := m.params.M1, m.params.M2, m.params.L1, m.params.L2

	c1, c2 := math.Cos(s.Theta1), math.Cos(s.Theta2)

	vx1 := l1 * s.Omega1 * c1
	vy1 := l2 * s.Omega2 * c2
	vx2 := vx1 + l2*s.Omega2*c2
	vy2 := vy1 + l2*s.Omega2*c2

	return 0.5*m1*(vx1*vx1+vy1*vy1) + 0.5*m2*(vx2*vx2+vy2*vy2)
}

// PotentialEnergy is referenced to the pivot, so it is negative whenever
// the bobs hang below it.
func (m *Model) PotentialEnergy(s State) float64 {
	g, m1, m2, l1, l2 := m.params.Gravity, m.params.M1, m.params.M2, m.params.L1, m.params.L2

	y1 := -l1 * math.Cos(s.Theta1)
	y2 := y1 - l2*math.Cos(s.Theta2)

	return m1*g*y1 + m2*g*y2
}

// Energy is the total mechanical energy, kinetic plus potential.
func (m *Model) Energy(s State) float64 {
	return m.KineticEnergy(s) + m.PotentialEnergy(s)
}

// Lagrangian is kinetic minus potential energy.
func (m *Model) Lagrangian(s State) float64 {
	return m.KineticEnergy(s) - m.PotentialEnergy(s)
}

// Positions maps the state to screen coordinates of both bobs. The y axis
// grows downward, matching the angle convention.
func (m *Model) Positions(s State, originX, originY float64) (x1, y1, x2, y2 float64) {
	x1 = originX + m.params.L1*math.Sin(s.Theta1)
	y1 = originY + m.params.L1*math.Cos(s.Theta1)
	x2 = x1 + m.params.L2*math.Sin(s.Theta2)
	y2 = y1 + m.params.L2*math.Cos(s.Theta2)
	return
}
