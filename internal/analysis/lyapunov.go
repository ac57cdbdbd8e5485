package analysis

import (
	"math"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following a
// reference trajectory and a neighbour displaced by perturbation in theta1.
// The neighbour is pulled back to the initial distance every step and the
// logarithmic stretch is averaged over the elapsed time.
func LyapunovExponent(
	model *physics.Model,
	integ integrators.Integrator,
	x0 physics.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if !(dt > 0) || !(duration > 0) || perturbation == 0 {
		return 0
	}

	d0 := math.Abs(perturbation)
	x := x0
	xp := x0
	xp.Theta1 += perturbation

	steps := int(duration / dt)
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		integ.Step(model, &x, dt)
		integ.Step(model, &xp, dt)

		sep := separation(x, xp)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / d0)
		count++

		// renormalise along the current separation direction
		scale := d0 / sep
		xp = physics.State{
			Theta1: x.Theta1 + (xp.Theta1-x.Theta1)*scale,
			Theta2: x.Theta2 + (xp.Theta2-x.Theta2)*scale,
			Omega1: x.Omega1 + (xp.Omega1-x.Omega1)*scale,
			Omega2: x.Omega2 + (xp.Omega2-x.Omega2)*scale,
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

func separation(a, b physics.State) float64 {
	d1 := b.Theta1 - a.Theta1
	d2 := b.Theta2 - a.Theta2
	d3 := b.Omega1 - a.Omega1
	d4 := b.Omega2 - a.Omega2
	return math.Sqrt(d1*d1 + d2*d2 + d3*d3 + d4*d4)
}
