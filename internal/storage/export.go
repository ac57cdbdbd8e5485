package storage

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	json "github.com/json-iterator/go"

	"github.com/san-kum/pendulum/internal/sim"
)

type ExportData struct {
	Run        RunMetadata  `json:"run"`
	Times      []float64    `json:"times"`
	States     [][4]float64 `json:"states"`
	Energies   []float64    `json:"energies"`
	Trajectory [][2]float64 `json:"trajectory"`
}

// ExportJSON writes a run and its samples as a single JSON document. JSON
// has no NaN or Inf, so samples from the first non-finite one onward and
// non-finite trail points are left out.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample, trail []sim.Point) error {
	for i, sm := range samples {
		if !sm.State.IsFinite() || math.IsNaN(sm.Energy) || math.IsInf(sm.Energy, 0) {
			samples = samples[:i]
			break
		}
	}
	finite := make([]sim.Point, 0, len(trail))
	for _, p := range trail {
		if isFinite(p.X) && isFinite(p.Y) {
			finite = append(finite, p)
		}
	}
	trail = finite

	data := ExportData{
		Run:        meta,
		Times:      make([]float64, len(samples)),
		States:     make([][4]float64, len(samples)),
		Energies:   make([]float64, len(samples)),
		Trajectory: make([][2]float64, len(trail)),
	}
	for i, sm := range samples {
		data.Times[i] = sm.Time
		data.States[i] = [4]float64{sm.State.Theta1, sm.State.Theta2, sm.State.Omega1, sm.State.Omega2}
		data.Energies[i] = sm.Energy
	}
	for i, p := range trail {
		data.Trajectory[i] = [2]float64{p.X, p.Y}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSV writes samples with angles converted to degrees.
func ExportCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "time", "theta1_deg", "theta2_deg", "omega1", "omega2", "energy"}); err != nil {
		return err
	}
	for _, sm := range samples {
		row := append([]string{strconv.Itoa(sm.Frame)}, formatRow(
			sm.Time,
			sm.State.Theta1Degrees(),
			sm.State.Theta2Degrees(),
			sm.State.Omega1,
			sm.State.Omega2,
			sm.Energy,
		)...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
