package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
)

// BifurcationPoint lists the distinct values seen for one parameter value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// WithParam returns a copy of p with the named field replaced. Names follow
// the legacy config keys: g, m1, L1, m2, L2.
func WithParam(p physics.Params, name string, v float64) (physics.Params, error) {
	switch name {
	case "g":
		p.Gravity = v
	case "m1":
		p.M1 = v
	case "L1":
		p.L1 = v
	case "m2":
		p.M2 = v
	case "L2":
		p.L2 = v
	default:
		return physics.Params{}, fmt.Errorf("unknown parameter %q", name)
	}
	return p, p.Validate()
}

// BifurcationDiagram sweeps one physical parameter. For each value it lets
// the motion settle for transient seconds, then records the distinct values
// of the chosen variable at Poincare crossings of theta1 = 0 over the next
// record seconds.
func BifurcationDiagram(
	base physics.Params,
	integ integrators.Integrator,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	v Variable,
	x0 physics.State,
	dt, transient, record float64,
) ([]BifurcationPoint, error) {
	if !(dt > 0) {
		return nil, fmt.Errorf("time step must be positive, got %g", dt)
	}
	if paramSteps <= 1 {
		paramSteps = 2
	}
	paramStep := (paramMax - paramMin) / float64(paramSteps-1)
	results := make([]BifurcationPoint, 0, paramSteps)

	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*paramStep
		p, err := WithParam(base, paramName, param)
		if err != nil {
			return nil, err
		}
		model := physics.NewModel(p)

		x := x0
		for j := 0; j < int(transient/dt); j++ {
			integ.Step(model, &x, dt)
		}

		section := GeneratePoincareSection(model, integ, x, Theta1, 0, v, v, dt, record)
		values := make([]float64, 0, len(section.Points))
		seen := make(map[int64]bool)
		for _, pt := range section.Points {
			key := int64(math.Round(pt.X * 1000))
			if !seen[key] {
				seen[key] = true
				values = append(values, pt.X)
			}
		}

		results = append(results, BifurcationPoint{Param: param, Values: values})
	}
	return results, nil
}

// BifurcationPoints flattens a diagram for plotting.
func BifurcationPoints(data []BifurcationPoint) []PhasePoint {
	var pts []PhasePoint
	for _, p := range data {
		for _, v := range p.Values {
			pts = append(pts, PhasePoint{X: p.Param, Y: v})
		}
	}
	return pts
}
