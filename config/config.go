package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sergev/max2870/logging"
	"github.com/sergev/max2870/synth"
)

//go:embed max2870.toml
var defaultConfigData []byte

// Auxiliary output sources
const (
	AuxDivided     = "divided"
	AuxFundamental = "fundamental"
)

// Output formats accepted in the configuration
var outputFormats = []string{"text", "json", "yaml"}

// Config represents the entire TOML configuration structure
type Config struct {
	Reference float64  `toml:"reference"`
	Output    string   `toml:"output"`
	LogLevel  string   `toml:"log_level"`
	Timeout   string   `toml:"timeout"`
	Tolerance float64  `toml:"tolerance"`
	RefScale  string   `toml:"ref_scale"`
	Sweep     Sweep    `toml:"sweep"`
	Register  Register `toml:"register"`
}

// Sweep holds the default reference sweep window
type Sweep struct {
	Start int64 `toml:"start"`
	Steps int64 `toml:"steps"`
}

// Register holds the output settings written into the register words
type Register struct {
	Power    int    `toml:"power"`
	AuxPower int    `toml:"aux_power"`
	AuxMode  string `toml:"aux_mode"`
}

// Path determines the config file path based on the operating system
func Path() (string, error) {
	switch runtime.GOOS {
	case "windows":
		// Use AppData directory for Windows
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user config directory: %w", err)
		}
		return filepath.Join(configDir, "max2870", "max2870.toml"), nil
	default:
		// Linux/macOS: use home directory
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine user home directory: %w", err)
		}
		return filepath.Join(homeDir, ".max2870.toml"), nil
	}
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	var conf Config
	if _, err := toml.Decode(string(defaultConfigData), &conf); err != nil {
		return nil, fmt.Errorf("failed to parse built-in config: %w", err)
	}
	return &conf, nil
}

// Initialize loads and validates the configuration file at path, or at the
// default location when path is empty. A missing file at the default
// location is created from the embedded default.
func Initialize(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		if err := writeDefault(path); err != nil {
			return nil, err
		}
	}

	// Start from the built-in values, so keys missing in the file keep their defaults
	conf, err := Default()
	if err != nil {
		return nil, err
	}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config at %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config at %s: %w", path, err)
	}
	return conf, nil
}

// writeDefault creates the config file from the embedded default.
func writeDefault(path string) error {
	// Create parent directory if needed (for Windows)
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	if err := os.WriteFile(path, defaultConfigData, 0644); err != nil {
		return fmt.Errorf("failed to create default config file at %s: %w", path, err)
	}
	return nil
}

// Validate checks every field for a usable value.
func (c *Config) Validate() error {
	if c.Reference <= 0 {
		return fmt.Errorf("invalid reference: %.0f (must be positive)", c.Reference)
	}
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output %q (must be one of %v)", c.Output, outputFormats)
	}
	if !slices.Contains(logging.Levels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q (must be one of %v)", c.LogLevel, logging.Levels)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Tolerance < 0 || math.IsNaN(c.Tolerance) || math.IsInf(c.Tolerance, 0) {
		return fmt.Errorf("invalid tolerance: %v (must not be negative)", c.Tolerance)
	}
	if _, err := c.Scale(); err != nil {
		return err
	}
	if c.Sweep.Start <= 0 {
		return fmt.Errorf("invalid sweep start: %d (must be positive)", c.Sweep.Start)
	}
	if c.Sweep.Steps < 0 {
		return fmt.Errorf("invalid sweep steps: %d (must not be negative)", c.Sweep.Steps)
	}
	if c.Register.Power < 0 || c.Register.Power > 4 {
		return fmt.Errorf("invalid register power: %d (must be 0..4)", c.Register.Power)
	}
	if c.Register.AuxPower < 0 || c.Register.AuxPower > 4 {
		return fmt.Errorf("invalid register aux_power: %d (must be 0..4)", c.Register.AuxPower)
	}
	if c.Register.AuxMode != AuxDivided && c.Register.AuxMode != AuxFundamental {
		return fmt.Errorf("invalid register aux_mode %q (must be %q or %q)", c.Register.AuxMode, AuxDivided, AuxFundamental)
	}
	return nil
}

// TimeoutDuration parses the timeout; zero means no limit.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" || c.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, errors.New("timeout must not be negative")
	}
	return d, nil
}

// Scale parses the reference stage setting.
func (c *Config) Scale() (synth.RefScale, error) {
	scale, err := synth.ParseRefScale(c.RefScale)
	if err != nil {
		return 0, fmt.Errorf("invalid ref_scale %q (must be one of %v)", c.RefScale, synth.RefScaleNames())
	}
	return scale, nil
}
