package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
)

// Simulation owns one pendulum: its live state, the trail of the second bob
// and the clock. It is not safe for concurrent use; give each goroutine its
// own Simulation.
type Simulation struct {
	model      *physics.Model
	integrator integrators.Integrator
	profile    Profile

	initial physics.State
	state   physics.State
	trail   *Trajectory

	time   float64
	steps  int
	frames int

	metrics   []Metric
	observers []Observer
	validate  bool
	logger    *zap.Logger
}

type Option func(*Simulation)

// WithValidation makes Run stop at the first non-finite state.
func WithValidation(enabled bool) Option {
	return func(s *Simulation) { s.validate = enabled }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetric(m Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, m) }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

// New builds a simulation starting at initial. The profile is expected to be
// valid; see NewProfile.
func New(model *physics.Model, integrator integrators.Integrator, profile Profile, initial physics.State, opts ...Option) *Simulation {
	s := &Simulation{
		model:      model,
		integrator: integrator,
		profile:    profile,
		initial:    initial,
		state:      initial,
		trail:      NewTrajectory(profile.Capacity),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances the state by one time step.
func (s *Simulation) Step() {
	s.integrator.Step(s.model, &s.state, s.profile.TimeStep)
	s.time += s.profile.TimeStep
	s.steps++
}

func (s *Simulation) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Frame runs one frame worth of steps, records the second bob position and
// notifies metrics and observers.
func (s *Simulation) Frame() Sample {
	s.StepN(s.profile.SubSteps)
	s.frames++

	_, _, x2, y2 := s.model.Positions(s.state, float64(s.profile.OriginX), float64(s.profile.OriginY))
	s.trail.Append(x2, y2)

	sample := Sample{
		Frame:  s.frames,
		Time:   s.time,
		State:  s.state,
		Energy: s.model.Energy(s.state),
	}
	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, o := range s.observers {
		o.OnFrame(sample)
	}
	return sample
}

// Reset restores the initial state exactly and clears the trail, the clock
// and all metrics.
func (s *Simulation) Reset() {
	s.state = s.initial
	s.trail.Clear()
	s.time = 0
	s.steps = 0
	s.frames = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Simulation) State() physics.State    { return s.state }
func (s *Simulation) Initial() physics.State  { return s.initial }
func (s *Simulation) Energy() float64         { return s.model.Energy(s.state) }
func (s *Simulation) Time() float64           { return s.time }
func (s *Simulation) Steps() int              { return s.steps }
func (s *Simulation) Frames() int             { return s.frames }
func (s *Simulation) Profile() Profile        { return s.profile }
func (s *Simulation) Model() *physics.Model   { return s.model }
func (s *Simulation) Trajectory() *Trajectory { return s.trail }

// Diverged reports whether the live state has left the finite range.
func (s *Simulation) Diverged() bool { return !s.state.IsFinite() }

func (s *Simulation) Snapshot() Snapshot {
	return Snapshot{
		Sample: Sample{
			Frame:  s.frames,
			Time:   s.time,
			State:  s.state,
			Energy: s.model.Energy(s.state),
		},
		Theta1Deg: s.state.Theta1Degrees(),
		Theta2Deg: s.state.Theta2Degrees(),
		Kinetic:   s.model.KineticEnergy(s.state),
		Potential: s.model.PotentialEnergy(s.state),
		Points:    s.trail.Points(),
	}
}

// Run advances the simulation headlessly by the given number of frames,
// continuing from the current state.
func (s *Simulation) Run(ctx context.Context, frames int) (*Result, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("frames must be positive, got %d", frames)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Samples:       make([]Sample, 0, frames),
		Metrics:       make(map[string]float64),
		InitialEnergy: s.Energy(),
	}
	startSteps := s.steps

	s.logger.Debug("run started",
		zap.Int("frames", frames),
		zap.String("profile", s.profile.String()),
		zap.Float64("energy", result.InitialEnergy))

	var runErr error
	for i := 0; i < frames && runErr == nil; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		sample := s.Frame()
		result.Samples = append(result.Samples, sample)

		if s.validate && !sample.State.IsFinite() {
			runErr = &SimError{
				Step:    s.steps,
				Time:    s.time,
				State:   sample.State,
				Wrapped: physics.ErrNonFinite,
			}
			s.logger.Warn("non-finite state", zap.Int("step", s.steps), zap.Float64("time", s.time))
		}
	}

	s.finish(result, startSteps)
	return result, runErr
}

func (s *Simulation) finish(result *Result, startSteps int) {
	result.Frames = len(result.Samples)
	result.Steps = s.steps - startSteps
	result.Final = s.state
	result.FinalEnergy = s.Energy()
	if result.InitialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.FinalEnergy-result.InitialEnergy) / math.Abs(result.InitialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished",
		zap.Int("frames", result.Frames),
		zap.Int("steps", result.Steps),
		zap.Float64("energy_drift", result.EnergyDrift))
}
