package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/pendulum/internal/config"
	"github.com/san-kum/pendulum/internal/experiment"
	"github.com/san-kum/pendulum/internal/observability"
	"github.com/san-kum/pendulum/internal/storage"
)

const (
	envPrefix     = "PENDULUM"
	annotationTUI = "tui"
)

// flagKeys binds CLI flags to config keys. Flag names follow the legacy
// --g=, --m1=, --L1= style.
var flagKeys = map[string]string{
	"g":          "physics.gravity",
	"m1":         "physics.mass1",
	"L1":         "physics.length1",
	"m2":         "physics.mass2",
	"L2":         "physics.length2",
	"sim":        "profile.preset",
	"dt":         "profile.time_step",
	"substeps":   "profile.sub_steps",
	"capacity":   "profile.capacity",
	"preset":     "initial.preset",
	"integrator": "integrator",
	"data":       "data_dir",
	"log-level":  "logger.level",
	"log-format": "logger.format",
	"log-file":   "logger.log_file",
}

// app carries what every command needs once flags, env and the config file
// have been resolved.
type app struct {
	cfgFile string
	logOut  io.Writer

	cfg    *config.Config
	logger *zap.Logger
}

func newApp(logOut io.Writer) *app {
	return &app{logOut: logOut, logger: zap.NewNop()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pendulum",
		Short: "double pendulum simulation lab",
		Long: "Simulates a planar double pendulum from its Euler-Lagrange equations.\n" +
			"Without a subcommand it opens the live terminal view.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations:   map[string]string{annotationTUI: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	d := config.DefaultConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file: .yaml/.yml, or a legacy key=value physics file")
	pf.Float64("g", d.Physics.Gravity, "gravitational acceleration")
	pf.Float64("m1", d.Physics.Mass1, "mass of the first bob")
	pf.Float64("L1", d.Physics.Length1, "length of the first rod")
	pf.Float64("m2", d.Physics.Mass2, "mass of the second bob")
	pf.Float64("L2", d.Physics.Length2, "length of the second rod")
	pf.Float64("theta1", 0, "initial angle of the first rod in degrees (needs --theta2)")
	pf.Float64("theta2", 0, "initial angle of the second rod in degrees (needs --theta1)")
	pf.String("preset", "", "initial condition preset ("+strings.Join(config.ListPresets(), ", ")+")")
	pf.String("sim", d.Profile.Preset, "simulation profile ("+strings.Join(config.ListProfiles(), ", ")+")")
	pf.Float64("dt", 0, "time step override in seconds")
	pf.Int("substeps", 0, "integration steps per frame override")
	pf.Int("capacity", 0, "trail capacity override")
	pf.String("integrator", d.Integrator, "integration scheme")
	pf.String("data", d.DataDir, "directory for recorded runs")
	pf.String("log-level", d.Logger.Level, "log level (debug, info, warn, error)")
	pf.String("log-format", d.Logger.Format, "log format (console, json)")
	pf.String("log-file", "", "also write JSON logs to this file")

	live := newLiveCmd(a)
	root.RunE = live.RunE
	root.Flags().AddFlagSet(live.Flags())

	root.AddCommand(
		live,
		newRunCmd(a),
		newListCmd(a),
		newPlotCmd(a),
		newExportJSONCmd(a),
		newExportCSVCmd(a),
		newExportSVGCmd(a),
		newAnalyzeCmd(a),
		newCompareCmd(a),
		newSweepCmd(a),
		newLyapunovCmd(a),
		newPhaseCmd(a),
		newBifurcationCmd(a),
		newPresetsCmd(a),
		newProfilesCmd(a),
		newEnergyCmd(a),
		newSaveConfigCmd(a),
	)
	return root
}

// setup layers defaults, the config file, PENDULUM_* env variables and
// changed flags, validates the result and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	base := config.DefaultConfig()
	if a.cfgFile != "" {
		loaded, err := config.Load(a.cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		base = loaded
	}

	v := viper.New()
	config.SetDefaultsFrom(v, base)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}

	t1, t2 := flags.Lookup("theta1"), flags.Lookup("theta2")
	angles := t1 != nil && t2 != nil && t1.Changed && t2.Changed
	if angles {
		cfg.SetAngles(floatFlag(flags, "theta1"), floatFlag(flags, "theta2"))
	}
	a.cfg = cfg

	// the live view owns the terminal, so console logs are dropped there
	var w zapcore.WriteSyncer = zapcore.AddSync(a.logOut)
	if cmd.Annotations[annotationTUI] == "true" {
		w = zapcore.AddSync(io.Discard)
	}
	observability.Initialize(cfg.Logger, w)
	a.logger = observability.GetLogger()

	if !angles && (t1 != nil && t1.Changed || t2 != nil && t2.Changed) {
		a.logger.Warn("explicit angles need both --theta1 and --theta2; ignoring")
	}
	if len(base.SkippedLines) > 0 {
		a.logger.Warn("ignored malformed config lines",
			zap.String("config_file", a.cfgFile),
			zap.Ints("lines", base.SkippedLines))
	}
	a.logger.Debug("configuration resolved",
		zap.String("config_file", a.cfgFile),
		zap.Stringer("physics", mustParams(cfg)),
		zap.String("profile", cfg.Profile.Preset),
		zap.String("integrator", cfg.Integrator))
	return nil
}

func floatFlag(fs *pflag.FlagSet, name string) float64 {
	v, _ := fs.GetFloat64(name)
	return v
}

func mustParams(cfg *config.Config) fmt.Stringer {
	p, _ := cfg.Params()
	return p
}

func (a *app) experiment() (*experiment.Experiment, error) {
	return experiment.New(a.cfg)
}

func (a *app) store() (*storage.Store, error) {
	dir, err := a.cfg.ResolvedDataDir()
	if err != nil {
		return nil, err
	}
	return storage.New(dir)
}

// signalContext is cancelled on interrupt so long runs stop between frames.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// output opens path for writing, or returns the command's stdout for "" or "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
