package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/sim"
	"github.com/san-kum/pendulum/internal/viz"
)

func newLiveCmd(a *app) *cobra.Command {
	var (
		fps   int
		theme string
	)
	cmd := &cobra.Command{
		Use:         "live",
		Short:       "animate the pendulum in the terminal",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			s, err := e.Simulation(sim.WithLogger(a.logger))
			if err != nil {
				return err
			}

			a.logger.Info("live view started",
				zap.Stringer("physics", e.Params),
				zap.Stringer("profile", e.Profile),
				zap.String("integrator", e.Integrator))

			model := viz.NewModel(s,
				viz.WithFPS(fps),
				viz.WithTheme(theme),
				viz.WithLabel(fmt.Sprintf("%s, dt=%g", e.Integrator, e.Profile.TimeStep)),
				viz.WithLogger(a.logger))

			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("live view: %w", err)
			}
			a.logger.Info("live view closed", zap.Int("frames", s.Frames()), zap.Float64("time", s.Time()))
			return nil
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "frames per second")
	cmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	return cmd
}
