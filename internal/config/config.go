package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	defaultConfigPath = "~/.config/spotcheck/config.json"
	defaultInfluxPort = 8086
)

// Config holds user-editable settings for an analysis run.
type Config struct {
	Logging Logging `json:"logging"`
	Paths   Paths   `json:"paths"`
	Influx  Influx  `json:"influx"`
	Compare Compare `json:"compare"`
}

// Logging controls logging verbosity and destinations.
type Logging struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // text, json
	FileOutput bool   `json:"file_output"` // Enable file logging
	LogDir     string `json:"log_dir"`     // Directory for log files
}

// Paths configures default input/output locations.
type Paths struct {
	Expectations  string `json:"expectations"`   // Default expectation file
	JSONOutput    string `json:"json_output"`    // Result record destination
	ProjectionDir string `json:"projection_dir"` // Directory for projection text files
	DatabasePath  string `json:"database_path"`  // Local run archive (SQLite)
}

// Influx configures the time-series sink.
type Influx struct {
	Enabled        bool   `json:"enabled"`
	Host           string `json:"host"`
	Port           int    `json:"port"`
	Database       string `json:"database"`
	UserTag        string `json:"user_tag"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Compare configures verdict tolerances.
type Compare struct {
	Tolerance float64 `json:"tolerance"` // Absolute tolerance for all metrics
}

// Load reads configuration from disk, falling back to sensible defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("SPOTCHECK_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	expanded, err := expandUser(configPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Logging: Logging{
			Level:      "info",
			Format:     "text",
			FileOutput: false,
			LogDir:     "./logs",
		},
		Paths: Paths{
			Expectations:  "Input.yml",
			JSONOutput:    "Output.json",
			ProjectionDir: ".",
			DatabasePath:  filepath.Join(os.TempDir(), "spotcheck.db"),
		},
		Influx: Influx{
			Enabled:        true,
			Host:           "localhost",
			Port:           defaultInfluxPort,
			Database:       "test.db",
			UserTag:        "example",
			TimeoutSeconds: 10,
		},
		Compare: Compare{
			Tolerance: 0.01,
		},
	}
}

func expandUser(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
