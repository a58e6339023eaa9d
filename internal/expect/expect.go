// Package expect loads the expectation file describing where the light spot
// should be and how its intensity should be distributed.
package expect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Position is the expected spot centroid.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Scalar is a single expected value (standard deviation or dispersion).
type Scalar struct {
	Value float64 `yaml:"value" json:"value"`
}

// Config holds the three expectation groups. A group missing from the file
// stays at its zero value; only a missing or malformed file is an error.
type Config struct {
	Position   Position `yaml:"position" json:"position"`
	Std        Scalar   `yaml:"std" json:"std"`
	Dispersion Scalar   `yaml:"dispersion" json:"dispersion"`
}

// Load parses the YAML expectation file at path. The result is treated as
// immutable for the rest of the run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expectation file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse expectation file %s: %w", path, err)
	}

	return &cfg, nil
}
