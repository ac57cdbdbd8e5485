package integrators

import "github.com/san-kum/pendulum/internal/physics"

// SemiImplicitEuler updates the angular velocities first and then advances
// the angles with the new velocities.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(m *physics.Model, s *physics.State, dt float64) {
	a1, a2 := m.Accelerations(*s)

	w1 := s.Omega1 + a1*dt
	w2 := s.Omega2 + a2*dt

	s.Update(s.Theta1+w1*dt, s.Theta2+w2*dt, w1, w2)
}

// Euler is the explicit scheme: angles move with the velocities from the
// start of the step.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(m *physics.Model, s *physics.State, dt float64) {
	a1, a2 := m.Accelerations(*s)

	s.Update(
		s.Theta1+s.Omega1*dt,
		s.Theta2+s.Omega2*dt,
		s.Omega1+a1*dt,
		s.Omega2+a2*dt,
	)
}
