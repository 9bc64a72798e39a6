// Package config provides configuration loading and management for ndmorph.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// Workers is the number of regions processed concurrently
		Workers int `yaml:"workers"`

		// SafeBorder keeps structures touching the image edge in openings and closings
		SafeBorder bool `yaml:"safeBorder"`

		// Iterations is the number of times the operation is applied
		Iterations int `yaml:"iterations"`
	} `yaml:"processing"`

	// Operation parameters
	Operation struct {
		// Name is one of erode, dilate, opening, closing, gradient, whitetophat, blacktophat
		Name string `yaml:"name"`

		// Algorithm is auto, basic, histogram, anchor or vhgw
		Algorithm string `yaml:"algorithm"`

		// Boundary is the value of pixels outside the image for erode, dilate
		// and gradient; unset means the neutral value of the operation
		Boundary *float64 `yaml:"boundary,omitempty"`
	} `yaml:"operation"`

	// Structuring element parameters
	Element struct {
		// Shape is box, ball, poly, cross or annulus
		Shape string `yaml:"shape"`

		// Radius per axis; a single value applies to every axis
		Radius []int `yaml:"radius"`

		// Lines is the number of lines of a poly element, 0 picks a default
		Lines int `yaml:"lines"`

		// Thickness of an annulus
		Thickness int `yaml:"thickness"`

		// IncludeCenter fills the hole of an annulus
		IncludeCenter bool `yaml:"includeCenter"`
	} `yaml:"element"`

	// Output parameters
	Output struct {
		// Dir is where results are written when no output path is given
		Dir string `yaml:"dir"`

		// Format is the image format of written slices
		Format string `yaml:"format"`

		// SliceAxis, when set to x, y or z, writes 3-D results as the
		// sequence of planes orthogonal to that axis
		SliceAxis string `yaml:"sliceAxis,omitempty"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`

	// Perf parameters
	Perf struct {
		// Radii are the element radii timed by the perf mode
		Radii []int `yaml:"radii"`

		// Repeats is the number of runs per algorithm and radius
		Repeats int `yaml:"repeats"`

		// Algorithms are the algorithms compared by the perf mode
		Algorithms []string `yaml:"algorithms"`
	} `yaml:"perf"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.Workers = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.SafeBorder = false
	cfg.Processing.Iterations = 1

	// Set default operation parameters
	cfg.Operation.Name = "erode"
	cfg.Operation.Algorithm = "auto"

	// Set default element parameters
	cfg.Element.Shape = "box"
	cfg.Element.Radius = []int{1}
	cfg.Element.Lines = 0
	cfg.Element.Thickness = 1
	cfg.Element.IncludeCenter = false

	// Set default output parameters
	cfg.Output.Dir = "output"
	cfg.Output.Format = "png"
	cfg.Output.Verbose = false

	// Set default perf parameters
	cfg.Perf.Radii = []int{1, 2, 4, 8, 16}
	cfg.Perf.Repeats = 5
	cfg.Perf.Algorithms = []string{"basic", "histogram", "anchor", "vhgw"}

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by the operators
// themselves.
func (c *Config) Validate() error {
	if c.Processing.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Processing.Iterations)
	}
	if len(c.Element.Radius) == 0 {
		return fmt.Errorf("element radius is empty")
	}
	for _, r := range c.Element.Radius {
		if r < 0 {
			return fmt.Errorf("element radius %v has a negative entry", c.Element.Radius)
		}
	}
	switch strings.ToLower(c.Output.SliceAxis) {
	case "", "x", "y", "z":
	default:
		return fmt.Errorf("slice axis must be x, y or z, got %q", c.Output.SliceAxis)
	}
	if c.Perf.Repeats < 1 {
		return fmt.Errorf("perf repeats must be positive, got %d", c.Perf.Repeats)
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
