package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
)

// Profiles are the named simulation profiles selectable with --sim.
var Profiles = map[string]sim.Profile{
	"accurate": {TimeStep: 0.01, SubSteps: 5, Capacity: 1000, OriginX: 400, OriginY: 200},
	"default":  {TimeStep: 0.05, SubSteps: 2, Capacity: 500, OriginX: 400, OriginY: 200},
	"faster":   {TimeStep: 0.1, SubSteps: 1, Capacity: 300, OriginX: 400, OriginY: 200},
}

func ProfileByName(name string) (sim.Profile, error) {
	p, ok := Profiles[name]
	if !ok {
		return sim.Profile{}, fmt.Errorf("%w: profile %q (available: %v)", ErrUnknownPreset, name, ListProfiles())
	}
	return p, nil
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InitialPreset is a named starting configuration in degrees.
type InitialPreset struct {
	Theta1      float64
	Theta2      float64
	Description string
}

func (p InitialPreset) State() physics.State {
	return physics.StateFromDegrees(p.Theta1, p.Theta2)
}

var Presets = map[string]InitialPreset{
	"horizontal": {Theta1: 90, Theta2: 90, Description: "both rods level, released from rest"},
	"symmetric":  {Theta1: 85, Theta2: 85, Description: "rods aligned just below the horizontal"},
	"chaos":      {Theta1: 170, Theta2: 172, Description: "near the inverted position"},
	"gentle":     {Theta1: 17, Theta2: 17, Description: "small swing close to equilibrium"},
}

func GetPreset(name string) *InitialPreset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
