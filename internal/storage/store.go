package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"

	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile   = "metadata.json"
	statesFile     = "states.csv"
	trajectoryFile = "trajectory.csv"
)

// Store keeps recorded runs under a base directory, one subdirectory per
// run. Records are for offline analysis only; a run is never resumed.
type Store struct {
	baseDir string
}

// New returns a store rooted at baseDir. A leading ~ is expanded.
func New(baseDir string) (*Store, error) {
	dir, err := homedir.Expand(baseDir)
	if err != nil {
		return nil, err
	}
	return &Store{baseDir: dir}, nil
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type PhysicsRecord struct {
	Gravity float64 `json:"gravity"`
	Mass1   float64 `json:"mass1"`
	Length1 float64 `json:"length1"`
	Mass2   float64 `json:"mass2"`
	Length2 float64 `json:"length2"`
}

type ProfileRecord struct {
	TimeStep float64 `json:"time_step"`
	SubSteps int     `json:"sub_steps"`
	Capacity int     `json:"capacity"`
	OriginX  int     `json:"origin_x"`
	OriginY  int     `json:"origin_y"`
}

type StateRecord struct {
	Theta1 float64 `json:"theta1"`
	Theta2 float64 `json:"theta2"`
	Omega1 float64 `json:"omega1"`
	Omega2 float64 `json:"omega2"`
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Physics       PhysicsRecord      `json:"physics"`
	Profile       ProfileRecord      `json:"profile"`
	Integrator    string             `json:"integrator"`
	Initial       StateRecord        `json:"initial"`
	Frames        int                `json:"frames"`
	Steps         int                `json:"steps"`
	InitialEnergy float64            `json:"initial_energy"`
	FinalEnergy   float64            `json:"final_energy"`
	EnergyDrift   float64            `json:"energy_drift"`
	Diverged      bool               `json:"diverged"`
	Metrics       map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run.
func NewMetadata(name string, params physics.Params, profile sim.Profile, integrator string, initial physics.State, res *sim.Result) RunMetadata {
	meta := RunMetadata{
		Name: name,
		Physics: PhysicsRecord{
			Gravity: params.Gravity,
			Mass1:   params.M1,
			Length1: params.L1,
			Mass2:   params.M2,
			Length2: params.L2,
		},
		Profile: ProfileRecord{
			TimeStep: profile.TimeStep,
			SubSteps: profile.SubSteps,
			Capacity: profile.Capacity,
			OriginX:  profile.OriginX,
			OriginY:  profile.OriginY,
		},
		Integrator: integrator,
		Initial:    stateRecord(initial),
	}
	if res == nil {
		return meta
	}

	// JSON cannot carry NaN or Inf; a diverged run is flagged instead and
	// its non-finite figures are zeroed.
	meta.Frames = res.Frames
	meta.Steps = res.Steps
	meta.Diverged = !res.Final.IsFinite()
	meta.InitialEnergy = finiteOrZero(res.InitialEnergy)
	meta.FinalEnergy = finiteOrZero(res.FinalEnergy)
	meta.EnergyDrift = finiteOrZero(res.EnergyDrift)
	meta.Metrics = make(map[string]float64, len(res.Metrics))
	for k, v := range res.Metrics {
		if isFinite(v) {
			meta.Metrics[k] = v
		}
	}
	return meta
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrZero(v float64) float64 {
	if isFinite(v) {
		return v
	}
	return 0
}

func stateRecord(s physics.State) StateRecord {
	return StateRecord{Theta1: s.Theta1, Theta2: s.Theta2, Omega1: s.Omega1, Omega2: s.Omega2}
}

func (r StateRecord) State() physics.State {
	return physics.State{Theta1: r.Theta1, Theta2: r.Theta2, Omega1: r.Omega1, Omega2: r.Omega2}
}

func (r PhysicsRecord) Params() (physics.Params, error) {
	return physics.NewParams(r.Gravity, r.Mass1, r.Length1, r.Mass2, r.Length2)
}

func (r ProfileRecord) Profile() (sim.Profile, error) {
	return sim.NewProfile(r.TimeStep, r.SubSteps, r.Capacity, r.OriginX, r.OriginY)
}

func newRunID(name string) string {
	if name == "" {
		name = "run"
	}
	return fmt.Sprintf("%s_%s", name, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Save writes metadata, the per-frame samples and the trail of a run and
// returns the generated run ID.
func (s *Store) Save(meta RunMetadata, samples []sim.Sample, trail []sim.Point) (string, error) {
	meta.ID = newRunID(meta.Name)
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), data, 0644); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(samples)+1)
	rows = append(rows, []string{"time", "theta1", "theta2", "omega1", "omega2", "energy"})
	for _, sm := range samples {
		rows = append(rows, formatRow(sm.Time, sm.State.Theta1, sm.State.Theta2, sm.State.Omega1, sm.State.Omega2, sm.Energy))
	}
	if err := writeCSV(filepath.Join(runDir, statesFile), rows); err != nil {
		return "", err
	}

	rows = make([][]string, 0, len(trail)+1)
	rows = append(rows, []string{"x", "y"})
	for _, p := range trail {
		rows = append(rows, formatRow(p.X, p.Y))
	}
	if err := writeCSV(filepath.Join(runDir, trajectoryFile), rows); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func formatRow(values ...float64) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return row
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates reads the per-frame samples. Frame numbers start at 1.
func (s *Store) LoadStates(runID string) ([]sim.Sample, error) {
	records, err := s.readCSV(runID, statesFile)
	if err != nil {
		return nil, err
	}

	samples := make([]sim.Sample, 0, len(records))
	for i, rec := range records {
		v, err := parseRow(rec, 6)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", statesFile, i+2, err)
		}
		samples = append(samples, sim.Sample{
			Frame:  i + 1,
			Time:   v[0],
			State:  physics.State{Theta1: v[1], Theta2: v[2], Omega1: v[3], Omega2: v[4]},
			Energy: v[5],
		})
	}
	return samples, nil
}

// LoadTrajectory reads the recorded trail, oldest point first.
func (s *Store) LoadTrajectory(runID string) ([]sim.Point, error) {
	records, err := s.readCSV(runID, trajectoryFile)
	if err != nil {
		return nil, err
	}

	points := make([]sim.Point, 0, len(records))
	for i, rec := range records {
		v, err := parseRow(rec, 2)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", trajectoryFile, i+2, err)
		}
		points = append(points, sim.Point{X: v[0], Y: v[1]})
	}
	return points, nil
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, filepath.Base(runID), name)
}

// readCSV returns the data rows without the header.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	f, err := os.Open(s.path(runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

func parseRow(rec []string, n int) ([]float64, error) {
	if len(rec) != n {
		return nil, fmt.Errorf("expected %d fields, got %d", n, len(rec))
	}
	out := make([]float64, n)
	for i, field := range rec {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
