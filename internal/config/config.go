package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendulum/internal/integrators"
	"github.com/san-kum/pendulum/internal/physics"
	"github.com/san-kum/pendulum/internal/sim"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

const (
	DefaultProfile    = "faster"
	DefaultIntegrator = integrators.DefaultName
	DefaultDataDir    = "~/.pendulum/runs"
)

type Config struct {
	Physics    PhysicsConfig `mapstructure:"physics" yaml:"physics"`
	Profile    ProfileConfig `mapstructure:"profile" yaml:"profile"`
	Initial    InitialConfig `mapstructure:"initial" yaml:"initial"`
	Integrator string        `mapstructure:"integrator" yaml:"integrator"`
	DataDir    string        `mapstructure:"data_dir" yaml:"data_dir"`
	Logger     LoggerConfig  `mapstructure:"logger" yaml:"logger"`

	// SkippedLines lists legacy file lines that Load ignored.
	SkippedLines []int `mapstructure:"-" yaml:"-"`
}

type PhysicsConfig struct {
	Gravity float64 `mapstructure:"gravity" yaml:"gravity"`
	Mass1   float64 `mapstructure:"mass1" yaml:"mass1"`
	Length1 float64 `mapstructure:"length1" yaml:"length1"`
	Mass2   float64 `mapstructure:"mass2" yaml:"mass2"`
	Length2 float64 `mapstructure:"length2" yaml:"length2"`
}

// ProfileConfig names a preset. Non-zero explicit fields override the
// preset's values.
type ProfileConfig struct {
	Preset   string  `mapstructure:"preset" yaml:"preset,omitempty"`
	TimeStep float64 `mapstructure:"time_step" yaml:"time_step,omitempty"`
	SubSteps int     `mapstructure:"sub_steps" yaml:"sub_steps,omitempty"`
	Capacity int     `mapstructure:"capacity" yaml:"capacity,omitempty"`
	OriginX  int     `mapstructure:"origin_x" yaml:"origin_x,omitempty"`
	OriginY  int     `mapstructure:"origin_y" yaml:"origin_y,omitempty"`
}

// InitialConfig holds starting angles in degrees. Explicit angles are used
// only when both are set; otherwise the named preset or the default state
// applies.
type InitialConfig struct {
	Preset string   `mapstructure:"preset" yaml:"preset,omitempty"`
	Theta1 *float64 `mapstructure:"theta1" yaml:"theta1,omitempty"`
	Theta2 *float64 `mapstructure:"theta2" yaml:"theta2,omitempty"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the ANSI color codes for each log level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

func DefaultPhysics() PhysicsConfig {
	p := physics.DefaultParams()
	return PhysicsConfig{Gravity: p.Gravity, Mass1: p.M1, Length1: p.L1, Mass2: p.M2, Length2: p.L2}
}

func DefaultLogger() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "pendulum",
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
		Colors: ColorConfig{
			Debug:  "cyan",
			Info:   "green",
			Warn:   "yellow",
			Error:  "red",
			DPanic: "magenta",
			Panic:  "magenta",
			Fatal:  "red",
		},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Physics:    DefaultPhysics(),
		Profile:    ProfileConfig{Preset: DefaultProfile},
		Integrator: DefaultIntegrator,
		DataDir:    DefaultDataDir,
		Logger:     DefaultLogger(),
	}
}

// SetDefaults registers every default with v so that env variables and
// flags can override individual keys.
func SetDefaults(v *viper.Viper) {
	SetDefaultsFrom(v, DefaultConfig())
}

// SetDefaultsFrom registers the values of base as the lowest layer of v.
// The CLI uses it to put a loaded config file underneath env and flags.
func SetDefaultsFrom(v *viper.Viper, d *Config) {
	v.SetDefault("physics.gravity", d.Physics.Gravity)
	v.SetDefault("physics.mass1", d.Physics.Mass1)
	v.SetDefault("physics.length1", d.Physics.Length1)
	v.SetDefault("physics.mass2", d.Physics.Mass2)
	v.SetDefault("physics.length2", d.Physics.Length2)

	v.SetDefault("profile.preset", d.Profile.Preset)
	v.SetDefault("profile.time_step", d.Profile.TimeStep)
	v.SetDefault("profile.sub_steps", d.Profile.SubSteps)
	v.SetDefault("profile.capacity", d.Profile.Capacity)
	v.SetDefault("profile.origin_x", d.Profile.OriginX)
	v.SetDefault("profile.origin_y", d.Profile.OriginY)

	v.SetDefault("initial.preset", d.Initial.Preset)
	if d.Initial.Theta1 != nil && d.Initial.Theta2 != nil {
		v.SetDefault("initial.theta1", *d.Initial.Theta1)
		v.SetDefault("initial.theta2", *d.Initial.Theta2)
	}
	v.SetDefault("integrator", d.Integrator)
	v.SetDefault("data_dir", d.DataDir)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.add_source", d.Logger.AddSource)
	v.SetDefault("logger.service_name", d.Logger.ServiceName)
	v.SetDefault("logger.log_file", d.Logger.LogFile)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.compress", d.Logger.Compress)
	v.SetDefault("logger.colors.debug", d.Logger.Colors.Debug)
	v.SetDefault("logger.colors.info", d.Logger.Colors.Info)
	v.SetDefault("logger.colors.warn", d.Logger.Colors.Warn)
	v.SetDefault("logger.colors.error", d.Logger.Colors.Error)
	v.SetDefault("logger.colors.dpanic", d.Logger.Colors.DPanic)
	v.SetDefault("logger.colors.panic", d.Logger.Colors.Panic)
	v.SetDefault("logger.colors.fatal", d.Logger.Colors.Fatal)
}

func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML config (.yaml or .yml) or a legacy key=value physics
// file (any other extension).
func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if !IsYAML(path) {
		p, skipped, err := LoadLegacy(path, cfg.Physics)
		if err != nil {
			return nil, err
		}
		cfg.Physics = p
		cfg.SkippedLines = skipped
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate checks that the configuration resolves to a runnable
// simulation and returns the first problem found.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if _, err := c.SimProfile(); err != nil {
		return err
	}
	if _, err := c.InitialState(); err != nil {
		return err
	}
	if _, err := integrators.Lookup(c.Integrator); err != nil {
		return err
	}
	return nil
}

func (c *Config) Params() (physics.Params, error) {
	p := c.Physics
	return physics.NewParams(p.Gravity, p.Mass1, p.Length1, p.Mass2, p.Length2)
}

// SimProfile resolves the preset and applies explicit overrides.
func (c *Config) SimProfile() (sim.Profile, error) {
	name := c.Profile.Preset
	if name == "" {
		name = DefaultProfile
	}
	p, err := ProfileByName(name)
	if err != nil {
		return sim.Profile{}, err
	}

	o := c.Profile
	if o.TimeStep != 0 {
		p.TimeStep = o.TimeStep
	}
	if o.SubSteps != 0 {
		p.SubSteps = o.SubSteps
	}
	if o.Capacity != 0 {
		p.Capacity = o.Capacity
	}
	if o.OriginX != 0 {
		p.OriginX = o.OriginX
	}
	if o.OriginY != 0 {
		p.OriginY = o.OriginY
	}
	return sim.NewProfile(p.TimeStep, p.SubSteps, p.Capacity, p.OriginX, p.OriginY)
}

// InitialState resolves the starting state: explicit angle pair, then
// named preset, then the default horizontal release.
func (c *Config) InitialState() (physics.State, error) {
	in := c.Initial
	if in.Theta1 != nil && in.Theta2 != nil {
		return physics.StateFromDegrees(*in.Theta1, *in.Theta2), nil
	}
	if in.Preset != "" {
		p := GetPreset(in.Preset)
		if p == nil {
			return physics.State{}, fmt.Errorf("%w: initial condition %q (available: %v)", ErrUnknownPreset, in.Preset, ListPresets())
		}
		return p.State(), nil
	}
	return physics.DefaultState(), nil
}

// SetAngles sets both explicit starting angles in degrees.
func (c *Config) SetAngles(theta1, theta2 float64) {
	c.Initial.Theta1 = &theta1
	c.Initial.Theta2 = &theta2
}

// ResolvedDataDir returns DataDir with a leading ~ expanded.
func (c *Config) ResolvedDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir
	}
	return homedir.Expand(dir)
}
