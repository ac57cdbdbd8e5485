package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulum/internal/metrics"
	"github.com/san-kum/pendulum/internal/sim"
)

// StabilityThreshold is the angular speed, in rad/s, above which a frame
// counts against the stability metric.
const StabilityThreshold = 50.0

// Registry maps metric names to constructors. Every call builds a fresh
// metric, so results from different runs never share state.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func() sim.Metric)}

	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["mean_energy"] = func() sim.Metric { return metrics.NewMeanEnergy() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability(StabilityThreshold) }
	r.metrics["peak_omega"] = func() sim.Metric { return metrics.NewPeakOmega() }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, r.ListMetrics())
	}
	return fn(), nil
}

// Metrics builds the named metrics, or every registered one when names is
// empty.
func (r *Registry) Metrics(names ...string) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = r.ListMetrics()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	out, _ := r.Metrics()
	return out
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
