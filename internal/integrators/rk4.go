package integrators

import "github.com/san-kum/pendulum/internal/physics"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func derive(m *physics.Model, s physics.State) physics.State {
	a1, a2 := m.Accelerations(s)
	return physics.State{Theta1: s.Omega1, Theta2: s.Omega2, Omega1: a1, Omega2: a2}
}

func offset(s, d physics.State, h float64) physics.State {
	return physics.State{
		Theta1: s.Theta1 + h*d.Theta1,
		Theta2: s.Theta2 + h*d.Theta2,
		Omega1: s.Omega1 + h*d.Omega1,
		Omega2: s.Omega2 + h*d.Omega2,
	}
}

func (r *RK4) Step(m *physics.Model, s *physics.State, dt float64) {
	x := *s

	k1 := derive(m, x)
	k2 := derive(m, offset(x, k1, dt*0.5))
	k3 := derive(m, offset(x, k2, dt*0.5))
	k4 := derive(m, offset(x, k3, dt))

	dt6 := dt / 6.0
	s.Update(
		x.Theta1+dt6*(k1.Theta1+2*k2.Theta1+2*k3.Theta1+k4.Theta1),
		x.Theta2+dt6*(k1.Theta2+2*k2.Theta2+2*k3.Theta2+k4.Theta2),
		x.Omega1+dt6*(k1.Omega1+2*k2.Omega1+2*k3.Omega1+k4.Omega1),
		x.Omega2+dt6*(k1.Omega2+2*k2.Omega2+2*k3.Omega2+k4.Omega2),
	)
}
