// Package config provides configuration loading and access for a wave run.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all run configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Render     RenderConfig     `yaml:"render"`
	Encode     EncodeConfig     `yaml:"encode"`
	Output     OutputConfig     `yaml:"output"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// SimulationConfig holds the solver parameters.
type SimulationConfig struct {
	Dims             int     `yaml:"dims"`               // Spatial dimensions (1-4 supported)
	NumGrid          int     `yaml:"num_grid"`           // Grid points per axis, >= 3
	NumSnapshots     int     `yaml:"num_snapshots"`      // Frames emitted
	StepsPerSnapshot int     `yaml:"steps_per_snapshot"` // Integrator steps between frames
	Scheme           string  `yaml:"scheme"`             // wave | diffusion
	Courant          float64 `yaml:"courant"`            // delta_t/delta_x (wave); 0 = 1
	AmplitudeScale   float64 `yaml:"amplitude_scale"`    // Gaussian exponent factor
}

// RenderConfig holds frame rendering settings.
type RenderConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	YMin     float64 `yaml:"y_min"` // Profile chart value range
	YMax     float64 `yaml:"y_max"`
	Heatmap  bool    `yaml:"heatmap"`  // Central-plane panel for dims >= 2
	Gradient string  `yaml:"gradient"` // Heatmap color gradient name
}

// EncodeConfig holds animation assembly settings.
type EncodeConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	DelayNum    uint16 `yaml:"delay_num"` // Per-frame delay numerator (seconds)
	DelayDen    uint16 `yaml:"delay_den"` // Per-frame delay denominator
	Loops       uint   `yaml:"loops"`     // 0 = loop forever
	JPEGQuality int    `yaml:"jpeg_quality"`
	Workers     int    `yaml:"workers"` // Concurrent frame decoders
}

// OutputConfig holds output locations.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	FramesDir string `yaml:"frames_dir"` // Relative to Dir unless absolute
}

// TelemetryConfig holds probe and perf logging parameters.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	GrowthFactor float64 `yaml:"growth_factor"` // Flag runs whose max |u| grows past this factor
	PerfWindow   int     `yaml:"perf_window"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
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

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the solver does not check itself. Grid-level
// constraints (num_grid, dims) are enforced where the grid is built.
func (c *Config) Validate() error {
	var errs []error
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size %dx%d must be positive", c.Render.Width, c.Render.Height))
	}
	if c.Render.YMax <= c.Render.YMin {
		errs = append(errs, fmt.Errorf("render y range [%v, %v] is empty", c.Render.YMin, c.Render.YMax))
	}
	if c.Encode.DelayDen == 0 {
		errs = append(errs, errors.New("encode delay_den must be positive"))
	}
	if c.Encode.JPEGQuality < 1 || c.Encode.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("encode jpeg_quality %d not in [1, 100]", c.Encode.JPEGQuality))
	}
	switch strings.ToLower(c.Encode.Format) {
	case "apng", "mjpeg":
	default:
		errs = append(errs, fmt.Errorf("encode format %q not one of apng, mjpeg", c.Encode.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
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
