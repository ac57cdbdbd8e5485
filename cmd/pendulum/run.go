package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
	"github.com/san-kum/pendulum/internal/storage"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		frames   int
		record   bool
		name     string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			s, err := e.Simulation(sim.WithLogger(a.logger), sim.WithValidation(validate))
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			a.logger.Info("run started",
				zap.Int("frames", frames),
				zap.Stringer("profile", e.Profile),
				zap.String("integrator", e.Integrator))
			start := time.Now()
			res, runErr := s.Run(ctx, frames)
			if res == nil {
				return runErr
			}
			a.logger.Info("run finished",
				zap.Int("frames", res.Frames),
				zap.Int("steps", res.Steps),
				zap.Duration("elapsed", time.Since(start)))

			printSummary(cmd.OutOrStdout(), s, res)

			var simErr *sim.SimError
			if errors.As(runErr, &simErr) {
				fmt.Fprintf(cmd.OutOrStdout(), "\nDIVERGED at step %d (t=%.4fs)\n", simErr.Step, simErr.Time)
			}

			if record {
				st, err := a.store()
				if err != nil {
					return err
				}
				if err := st.Init(); err != nil {
					return err
				}
				meta := storage.NewMetadata(name, e.Params, e.Profile, e.Integrator, e.Initial, res)
				runID, err := st.Save(meta, res.Samples, s.Trajectory().Points())
				if err != nil {
					return fmt.Errorf("save run: %w", err)
				}
				a.logger.Info("run recorded", zap.String("id", runID), zap.String("dir", st.Dir()))
				fmt.Fprintf(cmd.OutOrStdout(), "\nrecorded as %s\n", runID)
			}
			return runErr
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "number of frames to simulate")
	cmd.Flags().BoolVar(&record, "record", false, "save states and trail to the data directory")
	cmd.Flags().StringVar(&name, "name", "", "name prefix for the recorded run")
	cmd.Flags().BoolVar(&validate, "validate", true, "stop at the first non-finite state")
	return cmd
}

func printSummary(w io.Writer, s *sim.Simulation, res *sim.Result) {
	final := res.Final
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "frames\t%d\n", res.Frames)
	fmt.Fprintf(tw, "steps\t%d\n", res.Steps)
	fmt.Fprintf(tw, "time\t%.3fs\n", s.Time())
	fmt.Fprintf(tw, "theta1\t%.2f°\n", final.Theta1Degrees())
	fmt.Fprintf(tw, "theta2\t%.2f°\n", final.Theta2Degrees())
	fmt.Fprintf(tw, "omega1\t%.4f rad/s\n", final.Omega1)
	fmt.Fprintf(tw, "omega2\t%.4f rad/s\n", final.Omega2)
	fmt.Fprintf(tw, "energy\t%.2f J -> %.2f J (drift %.2f%%)\n", res.InitialEnergy, res.FinalEnergy, res.EnergyDrift*100)
	for _, k := range sortedKeys(res.Metrics) {
		fmt.Fprintf(tw, "%s\t%.6g\n", k, res.Metrics[k])
	}
	tw.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded in", st.Dir())
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tINTEGRATOR\tFRAMES\tDRIFT\tSTATUS")
			for _, r := range runs {
				status := "ok"
				if r.Diverged {
					status = "diverged"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f%%\t%s\n",
					r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), r.Integrator, r.Frames, r.EnergyDrift*100, status)
			}
			return tw.Flush()
		},
	}
}

// loadRun reads the metadata and samples of a recorded run.
func (a *app) loadRun(runID string) (*storage.Store, *storage.RunMetadata, []sim.Sample, error) {
	st, err := a.store()
	if err != nil {
		return nil, nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	samples, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	return st, meta, samples, nil
}

func newExportJSONCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json <run>",
		Short: "export a recorded run as one JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, samples, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			trail, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := storage.ExportJSON(w, *meta, samples, trail); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportCSVCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv <run>",
		Short: "export the states of a recorded run as CSV with angles in degrees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, samples, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			w, closeFn, err := output(cmd, out)
			if err != nil {
				return err
			}
			if err := storage.ExportCSV(w, samples); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

// finalPositions places both bobs of the last finite sample in profile
// pixels.
func finalPositions(meta *storage.RunMetadata, samples []sim.Sample) (sim.Point, sim.Point, error) {
	params, err := meta.Physics.Params()
	if err != nil {
		return sim.Point{}, sim.Point{}, err
	}
	state := meta.Initial.State()
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].State.IsFinite() {
			state = samples[i].State
			break
		}
	}
	x1, y1, x2, y2 := physics.NewModel(params).Positions(state,
		float64(meta.Profile.OriginX), float64(meta.Profile.OriginY))
	return sim.Point{X: x1, Y: y1}, sim.Point{X: x2, Y: y2}, nil
}
