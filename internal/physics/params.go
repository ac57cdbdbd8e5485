package physics

import (
	"fmt"
	"math"
)

const (
	DefaultGravity = 9.81
	DefaultMass    = 10.0
	DefaultLength  = 150.0
)

// Params describes the pendulum. The zero value is invalid; build one with
// NewParams or DefaultParams.
type Params struct {
	Gravity float64
	M1, L1  float64
	M2, L2  float64
}

// NewParams validates and returns a parameter set. Every value must be
// finite and strictly positive.
func NewParams(gravity, m1, l1, m2, l2 float64) (Params, error) {
	p := Params{Gravity: gravity, M1: m1, L1: l1, M2: m2, L2: l2}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func DefaultParams() Params {
	return Params{
		Gravity: DefaultGravity,
		M1:      DefaultMass, L1: DefaultLength,
		M2: DefaultMass, L2: DefaultLength,
	}
}

// Validate reports the first field that is not finite and positive.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"gravity", p.Gravity},
		{"mass1", p.M1},
		{"length1", p.L1},
		{"mass2", p.M2},
		{"length2", p.L2},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrParameterBounds, f.name, f.value)
		}
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("g=%.2f, m1=%.2f, L1=%.2f, m2=%.2f, L2=%.2f",
		p.Gravity, p.M1, p.L1, p.M2, p.L2)
}
