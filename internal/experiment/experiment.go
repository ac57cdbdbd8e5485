// Package experiment turns a validated configuration into runnable
// simulations.
package experiment

import (
	"fmt"

	"github.com/san-kum/pendulum/internal/config"
	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
)

// Experiment is a fully resolved configuration.
type Experiment struct {
	Params     physics.Params
	Profile    sim.Profile
	Initial    physics.State
	Integrator string

	registry *Registry
}

// New resolves cfg. The first configuration error is returned.
func New(cfg *config.Config) (*Experiment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("experiment: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	profile, err := cfg.SimProfile()
	if err != nil {
		return nil, err
	}
	initial, err := cfg.InitialState()
	if err != nil {
		return nil, err
	}

	name := cfg.Integrator
	if name == "" {
		name = integrators.DefaultName
	}

	return &Experiment{
		Params:     params,
		Profile:    profile,
		Initial:    initial,
		Integrator: name,
		registry:   NewRegistry(),
	}, nil
}

func (e *Experiment) Model() *physics.Model {
	return physics.NewModel(e.Params)
}

func (e *Experiment) Registry() *Registry { return e.registry }

// Simulation builds a fresh simulation with the default metric set
// attached. opts are applied after the metrics.
func (e *Experiment) Simulation(opts ...sim.Option) (*sim.Simulation, error) {
	integ, err := integrators.Lookup(e.Integrator)
	if err != nil {
		return nil, err
	}

	all := make([]sim.Option, 0, len(opts)+4)
	for _, m := range e.registry.DefaultMetrics() {
		all = append(all, sim.WithMetric(m))
	}
	all = append(all, opts...)

	return sim.New(e.Model(), integ, e.Profile, e.Initial, all...), nil
}

// Ensemble prepares members runs whose theta1 is offset by i*perturbation
// radians. Each member gets its own default metric set.
func (e *Experiment) Ensemble(members, frames int, perturbation float64, workers int, opts ...sim.Option) *sim.Ensemble {
	cfg := sim.EnsembleConfig{
		Members:      members,
		Frames:       frames,
		Perturbation: perturbation,
		Integrator:   e.Integrator,
		Workers:      workers,
		Metrics:      e.registry.DefaultMetrics,
	}
	return sim.NewEnsemble(e.Model(), e.Profile, e.Initial, cfg, opts...)
}

// Build resolves cfg and returns a simulation ready to run.
func Build(cfg *config.Config, opts ...sim.Option) (*sim.Simulation, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Simulation(opts...)
}
