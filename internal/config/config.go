package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	FPS      int    `yaml:"fps" env:"PRESETS_FPS"`
	Addr     string `yaml:"addr" env:"PRESETS_ADDR"` // e.g. :8080
	LogLevel string `yaml:"log_level" env:"PRESETS_LOG_LEVEL"`

	Preset  string `yaml:"preset,omitempty" env:"PRESETS_PRESET"`   // preset file (yaml or json)
	Project string `yaml:"project,omitempty" env:"PRESETS_PROJECT"` // project document with poses + descriptors
	Solver  string `yaml:"solver,omitempty" env:"PRESETS_SOLVER"`   // run a solver instead of the preset

	EventTolerance float64 `yaml:"event_tolerance" env:"PRESETS_EVENT_TOLERANCE"`
	Loop           bool    `yaml:"loop" env:"PRESETS_LOOP"`

	// Pool sizes the shape pool for automation presets, keyed by kind.
	// Solver runs size the pool from the solver instead.
	Pool map[string]int `yaml:"pool,omitempty"`
}

// Default is what an empty config file means.
func Default() Config {
	return Config{
		FPS:            60,
		Addr:           ":8080",
		LogLevel:       "info",
		EventTolerance: 0.05,
		Pool:           map[string]int{"octahedron": 12},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	c := Default()
	if err := Decode(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Decode reads path over c, so keys missing from the file keep whatever c
// already holds (flag values, typically).
func Decode(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	base := c.Pool
	// yaml merges into a non-nil map; a pool in the file replaces the old one
	c.Pool = nil
	if err := yaml.Unmarshal(b, c); err != nil {
		c.Pool = base
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if c.Pool == nil {
		c.Pool = base
	}
	return nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv overrides c with any PRESETS_* variables that are set.
func ApplyEnv(c *Config) error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if !(c.EventTolerance > 0) {
		errs = append(errs, fmt.Errorf("event_tolerance must be positive, got %v", c.EventTolerance))
	}
	for kind, n := range c.Pool {
		if n < 0 {
			errs = append(errs, fmt.Errorf("pool %q: negative count %d", kind, n))
		}
	}
	return errors.Join(errs...)
}
