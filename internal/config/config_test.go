package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("SPOTCHECK_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with missing file should use defaults: %v", err)
	}
	if cfg.Influx.Host != "localhost" || cfg.Influx.Port != 8086 {
		t.Fatalf("unexpected influx defaults: %+v", cfg.Influx)
	}
	if cfg.Influx.Database != "test.db" || cfg.Influx.UserTag != "example" {
		t.Fatalf("unexpected influx defaults: %+v", cfg.Influx)
	}
	if cfg.Compare.Tolerance != 0.01 {
		t.Fatalf("unexpected tolerance default: %v", cfg.Compare.Tolerance)
	}
	if cfg.Paths.Expectations != "Input.yml" || cfg.Paths.JSONOutput != "Output.json" {
		t.Fatalf("unexpected path defaults: %+v", cfg.Paths)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"influx": {"enabled": false, "host": "tsdb.internal", "port": 9999, "database": "spots"}, "compare": {"tolerance": 0.5}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SPOTCHECK_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Influx.Host != "tsdb.internal" || cfg.Influx.Port != 9999 || cfg.Influx.Enabled {
		t.Fatalf("file values not applied: %+v", cfg.Influx)
	}
	if cfg.Compare.Tolerance != 0.5 {
		t.Fatalf("tolerance not applied: %v", cfg.Compare.Tolerance)
	}
	// Untouched sections keep defaults.
	if cfg.Paths.Expectations != "Input.yml" {
		t.Fatalf("defaults lost for untouched section: %+v", cfg.Paths)
	}
}

func TestMalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SPOTCHECK_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}
