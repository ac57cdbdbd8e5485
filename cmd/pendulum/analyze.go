package main

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/analysis"
	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/sim"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <run>",
		Short: "frequency and energy analysis of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, meta, samples, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			profile, err := meta.Profile.Profile()
			if err != nil {
				return err
			}
			dt := profile.FrameDuration()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "run\t%s\n", meta.ID)
			fmt.Fprintf(tw, "integrator\t%s\n", meta.Integrator)
			fmt.Fprintf(tw, "samples\t%d every %gs\n", len(samples), dt)

			for _, name := range []string{"theta1", "theta2"} {
				data, err := series(samples, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s dominant\t%.4f Hz\n", name, analysis.DominantFrequency(data, dt))
			}

			energy, _ := series(samples, "energy")
			if len(energy) > 0 {
				lo, hi, mean := energy[0], energy[0], 0.0
				for _, e := range energy {
					lo, hi = min(lo, e), max(hi, e)
					mean += e
				}
				mean /= float64(len(energy))
				fmt.Fprintf(tw, "energy\tmin %.2f  max %.2f  mean %.2f J\n", lo, hi, mean)
			}
			fmt.Fprintf(tw, "energy drift\t%.4f%%\n", meta.EnergyDrift*100)
			for _, k := range sortedKeys(meta.Metrics) {
				fmt.Fprintf(tw, "%s\t%.6g\n", k, meta.Metrics[k])
			}
			if meta.Diverged {
				fmt.Fprintf(tw, "status\tdiverged\n")
			}
			return tw.Flush()
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "run the same configuration with several integrators",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = integrators.Names()
			}
			e, err := a.experiment()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "INTEGRATOR\tTHETA1\tTHETA2\tENERGY DRIFT\tMAX DRIFT\tELAPSED")
			for _, name := range names {
				e.Integrator = name
				s, err := e.Simulation(sim.WithLogger(a.logger))
				if err != nil {
					return err
				}
				start := time.Now()
				res, err := s.Run(ctx, frames)
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				elapsed := time.Since(start)
				a.logger.Debug("integrator compared", zap.String("integrator", name), zap.Duration("elapsed", elapsed))

				fmt.Fprintf(tw, "%s\t%.2f°\t%.2f°\t%.4f%%\t%.4f%%\t%s\n",
					name,
					res.Final.Theta1Degrees(),
					res.Final.Theta2Degrees(),
					res.EnergyDrift*100,
					res.Metrics["energy_drift"]*100,
					elapsed.Round(time.Microsecond))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "frames per integrator")
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		members, frames, workers int
		perturbation             float64
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run perturbed copies concurrently to show sensitivity to initial conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd)
			defer cancel()

			rad := perturbation * math.Pi / 180
			ens := e.Ensemble(members, frames, rad, workers, sim.WithLogger(a.logger))
			a.logger.Info("sweep started", zap.Int("members", members), zap.Int("frames", frames), zap.Float64("perturbation_deg", perturbation))
			results, err := ens.Run(ctx)
			if err != nil {
				return err
			}

			ref := results[0].Final
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MEMBER\tSTART THETA1\tFINAL THETA1\tFINAL THETA2\tDELTA THETA2\tDRIFT")
			for i, r := range results {
				fmt.Fprintf(tw, "%d\t%.4f°\t%.2f°\t%.2f°\t%.2f°\t%.2f%%\n",
					i,
					ens.Initial(i).Theta1Degrees(),
					r.Final.Theta1Degrees(),
					r.Final.Theta2Degrees(),
					r.Final.Theta2Degrees()-ref.Theta2Degrees(),
					r.EnergyDrift*100)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&members, "members", 8, "number of simulations")
	cmd.Flags().IntVar(&frames, "frames", 600, "frames per simulation")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent simulations (0 = one per member)")
	cmd.Flags().Float64Var(&perturbation, "perturbation", 0.001, "theta1 offset between members in degrees")
	return cmd
}

func newLyapunovCmd(a *app) *cobra.Command {
	var duration, perturbation float64
	cmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent of the configured start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			integ, err := integrators.Lookup(e.Integrator)
			if err != nil {
				return err
			}
			lambda := analysis.LyapunovExponent(e.Model(), integ, e.Initial, e.Profile.TimeStep, duration, perturbation)

			verdict := "regular"
			if lambda > 0.01 {
				verdict = "chaotic"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lyapunov exponent: %.5f 1/s (%s)\n", lambda, verdict)
			return nil
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", 60, "simulated seconds")
	cmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial separation in theta1 (radians)")
	return cmd
}

func newPhaseCmd(a *app) *cobra.Command {
	var (
		xName, yName  string
		duration      float64
		poincare      bool
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "draw a phase portrait or Poincare section in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			integ, err := integrators.Lookup(e.Integrator)
			if err != nil {
				return err
			}
			xv, err := analysis.ParseVariable(xName)
			if err != nil {
				return err
			}
			yv, err := analysis.ParseVariable(yName)
			if err != nil {
				return err
			}

			var points []analysis.PhasePoint
			title := fmt.Sprintf("%s vs %s", yv, xv)
			if poincare {
				sec := analysis.GeneratePoincareSection(e.Model(), integ, e.Initial, analysis.Theta1, 0, xv, yv, e.Profile.TimeStep, duration)
				if sec != nil {
					points = sec.Points
				}
				title = "poincare section at theta1 = 0: " + title
			} else {
				portrait := analysis.GeneratePhasePortrait(e.Model(), integ, e.Initial, xv, yv, e.Profile.TimeStep, duration)
				if portrait != nil {
					points = portrait.Points
				}
			}
			points = finitePoints(points)
			if len(points) == 0 {
				return fmt.Errorf("no points to plot")
			}

			fmt.Fprintln(cmd.OutOrStdout(), title)
			fmt.Fprintln(cmd.OutOrStdout(), analysis.PhasePortraitToASCII(points, width, height))
			return nil
		},
	}
	cmd.Flags().StringVar(&xName, "x", "theta1", "horizontal variable")
	cmd.Flags().StringVar(&yName, "y", "omega1", "vertical variable")
	cmd.Flags().Float64Var(&duration, "duration", 30, "simulated seconds")
	cmd.Flags().BoolVar(&poincare, "poincare", false, "plot upward crossings of theta1 = 0 only")
	cmd.Flags().IntVar(&width, "width", 70, "plot width")
	cmd.Flags().IntVar(&height, "height", 24, "plot height")
	return cmd
}

func newBifurcationCmd(a *app) *cobra.Command {
	var (
		param               string
		lo, hi              float64
		steps               int
		varName             string
		transient, duration float64
		width, height       int
	)
	cmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "sweep one physical parameter and plot Poincare values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			integ, err := integrators.Lookup(e.Integrator)
			if err != nil {
				return err
			}
			v, err := analysis.ParseVariable(varName)
			if err != nil {
				return err
			}

			data, err := analysis.BifurcationDiagram(e.Params, integ, param, lo, hi, steps, v, e.Initial, e.Profile.TimeStep, transient, duration)
			if err != nil {
				return err
			}
			points := finitePoints(analysis.BifurcationPoints(data))
			if len(points) == 0 {
				return fmt.Errorf("no crossings of theta1 = 0 recorded")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s vs %s\n", v, param)
			fmt.Fprintln(cmd.OutOrStdout(), analysis.PhasePortraitToASCII(points, width, height))
			return nil
		},
	}
	cmd.Flags().StringVar(&param, "param", "g", "parameter to sweep (g, m1, L1, m2, L2)")
	cmd.Flags().Float64Var(&lo, "min", 1, "lowest parameter value")
	cmd.Flags().Float64Var(&hi, "max", 20, "highest parameter value")
	cmd.Flags().IntVar(&steps, "steps", 40, "parameter values")
	cmd.Flags().StringVar(&varName, "var", "omega1", "recorded variable")
	cmd.Flags().Float64Var(&transient, "transient", 10, "settling time per value in seconds")
	cmd.Flags().Float64Var(&duration, "duration", 30, "recording time per value in seconds")
	cmd.Flags().IntVar(&width, "width", 70, "plot width")
	cmd.Flags().IntVar(&height, "height", 24, "plot height")
	return cmd
}

func finitePoints(points []analysis.PhasePoint) []analysis.PhasePoint {
	out := points[:0:0]
	for _, p := range points {
		if !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) {
			out = append(out, p)
		}
	}
	return out
}
