// Package config provides configuration loading and access for the
// simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen  ScreenConfig  `yaml:"screen"`
	Sim     SimConfig     `yaml:"sim"`
	Metrics MetricsConfig `yaml:"metrics"`
	Render  RenderConfig  `yaml:"render"`
	Brush   BrushConfig   `yaml:"brush"`
	Perturb PerturbConfig `yaml:"perturb"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds the startup simulation state.
type SimConfig struct {
	Model         string `yaml:"model"`           // reaction model id
	GridSize      int    `yaml:"grid_size"`       // lattice side length
	StepsPerFrame int    `yaml:"steps_per_frame"` // integration steps per display frame
	Seed          int64  `yaml:"seed"`            // 0 = derive from time
}

// MetricsConfig holds descriptor extraction parameters.
type MetricsConfig struct {
	Alpha float64 `yaml:"alpha"` // EMA smoothing factor
	Every int     `yaml:"every"` // integration steps between refreshes
}

// RenderConfig holds display mapping parameters.
type RenderConfig struct {
	Gradient string `yaml:"gradient"` // colormap id
}

// BrushConfig holds pointer editing defaults.
type BrushConfig struct {
	Radius float64 `yaml:"radius"` // grid cells
}

// PerturbConfig holds the noise-kick parameters.
type PerturbConfig struct {
	Strength  float64 `yaml:"strength"`  // amplitude added to V
	Frequency float64 `yaml:"frequency"` // noise cycles across the grid
}

// DerivedConfig holds sanitized values computed from the loaded
// config. Callers in the simulation loop read these instead of the
// raw fields.
type DerivedConfig struct {
	StepsPerFrame int     // clamped to at least 1
	MetricsEvery  int     // clamped to at least 1
	MetricsAlpha  float64 // clamped into (0, 1]
	BrushRadius   float32
	PerturbAmp    float32
	PerturbFreq   float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only overwrites fields
		// present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived sanitizes loop-facing values derived from the loaded
// config.
func (c *Config) computeDerived() {
	c.Derived.StepsPerFrame = c.Sim.StepsPerFrame
	if c.Derived.StepsPerFrame < 1 {
		c.Derived.StepsPerFrame = 1
	}

	c.Derived.MetricsEvery = c.Metrics.Every
	if c.Derived.MetricsEvery < 1 {
		c.Derived.MetricsEvery = 1
	}

	c.Derived.MetricsAlpha = c.Metrics.Alpha
	if c.Derived.MetricsAlpha <= 0 || c.Derived.MetricsAlpha > 1 {
		c.Derived.MetricsAlpha = 0.15
	}

	c.Derived.BrushRadius = float32(c.Brush.Radius)
	if c.Derived.BrushRadius <= 0 {
		c.Derived.BrushRadius = 4
	}

	c.Derived.PerturbAmp = float32(c.Perturb.Strength)
	c.Derived.PerturbFreq = float32(c.Perturb.Frequency)
	if c.Derived.PerturbFreq <= 0 {
		c.Derived.PerturbFreq = 8
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
