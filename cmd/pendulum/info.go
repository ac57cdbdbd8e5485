package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/pendulum/internal/config"
	"github.com/san-kum/pendulum/internal/integrators"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list initial condition presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTHETA1\tTHETA2\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(tw, "%s\t%g°\t%g°\t%s\n", name, p.Theta1, p.Theta2, p.Description)
			}
			return tw.Flush()
		},
	}
}

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "list simulation profiles and integrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PROFILE\tSETTINGS")
			for _, name := range config.ListProfiles() {
				p, err := config.ProfileByName(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == config.DefaultProfile {
					marker = " (default)"
				}
				fmt.Fprintf(tw, "%s%s\t%s\n", name, marker, p)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nintegrators: %v (default %s)\n", integrators.Names(), integrators.DefaultName)
			return nil
		},
	}
}

func newEnergyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "energy",
		Short: "print energies and accelerations of the configured start state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.experiment()
			if err != nil {
				return err
			}
			m := e.Model()
			s := e.Initial
			a1, a2 := m.Accelerations(s)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "parameters\t%s\n", e.Params)
			fmt.Fprintf(tw, "theta1\t%.2f°\n", s.Theta1Degrees())
			fmt.Fprintf(tw, "theta2\t%.2f°\n", s.Theta2Degrees())
			fmt.Fprintf(tw, "kinetic\t%.4f J\n", m.KineticEnergy(s))
			fmt.Fprintf(tw, "potential\t%.4f J\n", m.PotentialEnergy(s))
			fmt.Fprintf(tw, "total\t%.4f J\n", m.Energy(s))
			fmt.Fprintf(tw, "lagrangian\t%.4f J\n", m.Lagrangian(s))
			fmt.Fprintf(tw, "alpha1\t%.6f rad/s²\n", a1)
			fmt.Fprintf(tw, "alpha2\t%.6f rad/s²\n", a2)
			return tw.Flush()
		},
	}
}

func newSaveConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save-config <path.yaml>",
		Short: "write the resolved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !config.IsYAML(args[0]) {
				return fmt.Errorf("%s: expected a .yaml or .yml path", args[0])
			}
			if err := config.Save(args[0], a.cfg); err != nil {
				return err
			}
			a.logger.Info("config saved", zap.String("path", args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", args[0])
			return nil
		},
	}
}
