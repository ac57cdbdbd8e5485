package sim

import (
	"errors"
	"fmt"
)

var ErrInvalidProfile = errors.New("sim: invalid simulation profile")

// Profile fixes the time step, how many steps make up one rendered frame,
// how many trail points are kept, and the screen position of the pivot.
type Profile struct {
	TimeStep float64
	SubSteps int
	Capacity int
	OriginX  int
	OriginY  int
}

func NewProfile(timeStep float64, subSteps, capacity, originX, originY int) (Profile, error) {
	p := Profile{
		TimeStep: timeStep,
		SubSteps: subSteps,
		Capacity: capacity,
		OriginX:  originX,
		OriginY:  originY,
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) Validate() error {
	if !(p.TimeStep > 0) {
		return fmt.Errorf("%w: time step must be positive, got %g", ErrInvalidProfile, p.TimeStep)
	}
	if p.SubSteps <= 0 {
		return fmt.Errorf("%w: sub-steps must be positive, got %d", ErrInvalidProfile, p.SubSteps)
	}
	if p.Capacity <= 0 {
		return fmt.Errorf("%w: trajectory capacity must be positive, got %d", ErrInvalidProfile, p.Capacity)
	}
	return nil
}

// FrameDuration is the simulated time covered by one frame.
func (p Profile) FrameDuration() float64 {
	return p.TimeStep * float64(p.SubSteps)
}

func (p Profile) String() string {
	return fmt.Sprintf("dt=%g, substeps=%d, capacity=%d, origin=(%d,%d)",
		p.TimeStep, p.SubSteps, p.Capacity, p.OriginX, p.OriginY)
}
