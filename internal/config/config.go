package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the optional settld.yaml configuration. Command-line
// flags take precedence over anything set here.
type Config struct {
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Report      ReportConfig      `yaml:"report"`
}

// DiagnosticsConfig controls the stderr diagnostics stream.
type DiagnosticsConfig struct {
	// Level enables diagnostics when no -v flag is given. One of
	// "error", "warn", "info", "debug"; empty means silent.
	Level string `yaml:"level,omitempty"`
}

// ReportConfig controls summary exporter side outputs.
type ReportConfig struct {
	// Snapshot is a sqlite file to write the final account table to.
	Snapshot string `yaml:"snapshot,omitempty"`
	// RunLog is a CSV file that accumulates one row per processing run.
	RunLog string `yaml:"run_log,omitempty"`
}

// Load reads a settld.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no settld.yaml is given.
func Default() *Config {
	return &Config{}
}
