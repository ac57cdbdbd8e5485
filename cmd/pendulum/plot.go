package main

import (
	"fmt"
	"math"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/analysis"
	"github.com/san-kum/pendulum/internal/export"
	"github.com/san-kum/pendulum/internal/sim"
)

// series extracts one named quantity per sample: a state variable (angles
// in degrees) or "energy". Non-finite values end the series.
func series(samples []sim.Sample, name string) ([]float64, error) {
	var pick func(sim.Sample) float64
	if name == "energy" {
		pick = func(s sim.Sample) float64 { return s.Energy }
	} else {
		v, err := analysis.ParseVariable(name)
		if err != nil {
			return nil, err
		}
		pick = func(s sim.Sample) float64 {
			x := v.Of(s.State)
			if v == analysis.Theta1 || v == analysis.Theta2 {
				x *= 180 / math.Pi
			}
			return x
		}
	}

	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		x := pick(s)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			break
		}
		out = append(out, x)
	}
	return out, nil
}

func newPlotCmd(a *app) *cobra.Command {
	var (
		vars          []string
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "plot <run>",
		Short: "plot recorded quantities in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, meta, samples, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s (%s, %d frames)\n\n", meta.ID, meta.Integrator, meta.Frames)

			for _, name := range vars {
				data, err := series(samples, name)
				if err != nil {
					return err
				}
				if len(data) < 2 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: not enough finite samples\n\n", name)
					continue
				}
				graph := asciigraph.Plot(data,
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(name))
				fmt.Fprintln(cmd.OutOrStdout(), graph)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&vars, "var", []string{"theta1", "theta2", "energy"}, "quantities to plot (theta1, theta2, omega1, omega2, energy)")
	cmd.Flags().IntVar(&width, "width", 70, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newExportSVGCmd(a *app) *cobra.Command {
	var (
		out           string
		fit           bool
		width, height int
		stroke        string
	)
	cmd := &cobra.Command{
		Use:   "export-svg <run>",
		Short: "render the trail of a recorded run as SVG",
		Long: "Renders the recorded trail of the second bob with a fading stroke.\n" +
			"By default the last frame is drawn at its native pixel scale; --fit\n" +
			"scales the trail alone to the requested size.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, meta, samples, err := a.loadRun(args[0])
			if err != nil {
				return err
			}
			trail, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}

			var svg string
			if fit {
				svg = export.TrajectoryToSVG(trail, width, height, stroke)
			} else {
				bob1, bob2, err := finalPositions(meta, samples)
				if err != nil {
					return err
				}
				svg = export.SceneToSVG(export.Scene{
					Width:  width,
					Height: height,
					Origin: sim.Point{X: float64(meta.Profile.OriginX), Y: float64(meta.Profile.OriginY)},
					Bob1:   bob1,
					Bob2:   bob2,
					Trail:  trail,
					Stroke: stroke,
				})
			}
			if svg == "" {
				return fmt.Errorf("run %s has nothing to draw", meta.ID)
			}

			if out == "" || out == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), svg)
				return err
			}
			if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
				return err
			}
			a.logger.Info("svg written", zap.String("path", out))
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&fit, "fit", false, "scale the trail to fill the image")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 600, "image height")
	cmd.Flags().StringVar(&stroke, "stroke", export.DefaultStroke, "trail color")
	return cmd
}
