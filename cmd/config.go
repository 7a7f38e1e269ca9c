package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/procsim/procsim/sim"
)

// FileConfig represents the full procsim YAML configuration file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type FileConfig struct {
	Simulation sim.Config  `yaml:"simulation"`
	Trace      TraceConfig `yaml:"trace"`
}

// TraceConfig is the trace section of the configuration file.
type TraceConfig struct {
	Level    string `yaml:"level"`     // "none" (default) or "transitions"
	Database string `yaml:"database"` // SQLite file for recorded transitions (optional)
}

// DefaultFileConfig returns the configuration used when no file is given.
func DefaultFileConfig() FileConfig {
	return FileConfig{Simulation: sim.DefaultConfig(), Trace: TraceConfig{Level: "none"}}
}

// LoadFileConfig parses a YAML configuration file over the defaults.
// Uses strict field checking: typos must cause errors.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// MarshalFileConfig renders cfg as YAML.
func MarshalFileConfig(cfg FileConfig) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
