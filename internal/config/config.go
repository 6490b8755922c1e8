// Package config loads the YAML configuration shared by the MCP server and
// the batch CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/htr-preproc/internal/binarize"
	"github.com/ironsheep/htr-preproc/internal/normalize"
)

// Environment overrides.
const (
	EnvLogLevel = "HTR_PREPROC_LOG_LEVEL"
	EnvWorkers  = "HTR_PREPROC_WORKERS"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root of the configuration file.
type Config struct {
	Pipeline Pipeline `yaml:"pipeline"`
	Log      Log      `yaml:"log"`
}

// Pipeline holds the numeric parameters of the restoration pipeline.
type Pipeline struct {
	Illumination bool    `yaml:"illumination"`
	Binarization string  `yaml:"binarization"`
	Sauvola      Sauvola `yaml:"sauvola"`

	FeatureHeight int `yaml:"feature_height"`
	MaxWidth      int `yaml:"max_width"`
	TargetWidth   int `yaml:"target_width"`

	PadValue float32 `yaml:"pad_value"`
	MaxSteps int     `yaml:"max_steps"`

	Workers int `yaml:"workers"`
}

// Sauvola overrides the adaptive binarization parameters. Zero values take
// the defaults for each image.
type Sauvola struct {
	WindowWidth       int     `yaml:"window_width"`
	WindowHeight      int     `yaml:"window_height"`
	ReferenceContrast float64 `yaml:"reference_contrast"`
	K                 float64 `yaml:"k"`
}

// Log configures the logger.
type Log struct {
	Level string `yaml:"level"`
	Human bool   `yaml:"human"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pipeline: DefaultPipeline(),
		Log:      Log{Level: "info"},
	}
}

// DefaultPipeline returns the built-in pipeline parameters.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Illumination:  true,
		Binarization:  binarize.MethodAuto.String(),
		FeatureHeight: normalize.DefaultFeatureHeight,
		MaxWidth:      normalize.DefaultMaxWidth,
		Workers:       runtime.NumCPU(),
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv applies the environment overrides.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvWorkers, v, err)
		}
		c.Pipeline.Workers = n
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return c.Pipeline.Validate()
}

// Validate checks the pipeline parameters.
func (p Pipeline) Validate() error {
	if _, err := binarize.ParseMethod(p.Binarization); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := p.Normalize().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps must not be negative", ErrInvalid)
	}
	if p.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, p.Workers)
	}
	s := p.Sauvola
	if s.WindowWidth < 0 || s.WindowHeight < 0 || s.ReferenceContrast < 0 {
		return fmt.Errorf("%w: sauvola parameters must not be negative", ErrInvalid)
	}
	return nil
}

// Method returns the configured binarization method. Unknown names map to
// auto; Validate reports them.
func (p Pipeline) Method() binarize.Method {
	m, _ := binarize.ParseMethod(p.Binarization)
	return m
}

// SauvolaParams converts the Sauvola overrides.
func (p Pipeline) SauvolaParams() binarize.Params {
	return binarize.Params{
		WindowWidth:       p.Sauvola.WindowWidth,
		WindowHeight:      p.Sauvola.WindowHeight,
		ReferenceContrast: p.Sauvola.ReferenceContrast,
		K:                 p.Sauvola.K,
	}
}

// Normalize converts the geometry parameters.
func (p Pipeline) Normalize() normalize.Options {
	return normalize.Options{
		FeatureHeight: p.FeatureHeight,
		MaxWidth:      p.MaxWidth,
		TargetWidth:   p.TargetWidth,
	}
}
