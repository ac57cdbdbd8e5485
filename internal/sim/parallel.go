package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
)

// EnsembleConfig describes a batch of runs whose initial angles differ by a
// fixed perturbation.
type EnsembleConfig struct {
	Members      int
	Frames       int
	Perturbation float64 // added to theta1 per member, radians
	Integrator   string
	Workers      int // 0 means one goroutine per member

	// Metrics builds a fresh metric set for each member.
	Metrics func() []Metric
}

type Ensemble struct {
	model   *physics.Model
	profile Profile
	base    physics.State
	cfg     EnsembleConfig
	opts    []Option
}

// NewEnsemble prepares an ensemble around base. Options are applied to every
// member and must not carry shared mutable state; use cfg.Metrics instead.
func NewEnsemble(model *physics.Model, profile Profile, base physics.State, cfg EnsembleConfig, opts ...Option) *Ensemble {
	return &Ensemble{model: model, profile: profile, base: base, cfg: cfg, opts: opts}
}

// Initial returns the starting state of member i.
func (e *Ensemble) Initial(i int) physics.State {
	s := e.base
	s.Theta1 += float64(i) * e.cfg.Perturbation
	return s
}

// Run simulates every member concurrently. Each goroutine owns its own
// Simulation. The first failing member cancels the rest.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.cfg.Members <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one member, got %d", e.cfg.Members)
	}
	if _, err := integrators.Lookup(e.cfg.Integrator); err != nil {
		return nil, err
	}

	results := make([]*Result, e.cfg.Members)

	g, ctx := errgroup.WithContext(ctx)
	if e.cfg.Workers > 0 {
		g.SetLimit(e.cfg.Workers)
	}

	for i := 0; i < e.cfg.Members; i++ {
		g.Go(func() error {
			integ, err := integrators.Lookup(e.cfg.Integrator)
			if err != nil {
				return err
			}

			opts := append([]Option(nil), e.opts...)
			if e.cfg.Metrics != nil {
				for _, m := range e.cfg.Metrics() {
					opts = append(opts, WithMetric(m))
				}
			}

			s := New(e.model, integ, e.profile, e.Initial(i), opts...)
			res, err := s.Run(ctx, e.cfg.Frames)
			if err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
