package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/procsim/procsim/sim"
)

// GeneratorSpec describes a synthetic workload.
// Loaded from YAML via LoadGeneratorSpec(path).
type GeneratorSpec struct {
	Seed      int64          `yaml:"seed"`
	Processes int            `yaml:"processes"`
	FirstPID  int            `yaml:"first_pid"`
	Arrival   ArrivalSpec    `yaml:"arrival"`
	Phases    DistSpec       `yaml:"phases"` // busy phases per process
	Resources []ResourceSpec `yaml:"resources"`
}

// ArrivalSpec configures the gaps between consecutive process start ticks.
type ArrivalSpec struct {
	Process string  `yaml:"process"`  // "constant" or "poisson"
	MeanGap float64 `yaml:"mean_gap"` // ticks between starts
}

// ResourceSpec weights one resource keyword and sizes its phases.
type ResourceSpec struct {
	Keyword  string   `yaml:"keyword"` // CPU, INPUT or IO
	Weight   float64  `yaml:"weight"`
	Duration DistSpec `yaml:"duration"`
}

// DistSpec parameterizes a tick count distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// Valid value registries.
var (
	validArrivalProcesses = map[string]bool{
		"constant": true, "poisson": true,
	}
	validDistTypes = map[string]bool{
		"constant": true, "uniform": true, "gaussian": true, "exponential": true,
	}
	validKeywords = map[string]bool{
		sim.KeywordCPU: true, sim.KeywordInput: true, sim.KeywordIO: true,
	}
)

// DefaultGeneratorSpec returns a CPU-heavy mix of ten processes.
func DefaultGeneratorSpec() *GeneratorSpec {
	return &GeneratorSpec{
		Seed:      42,
		Processes: 10,
		Arrival:   ArrivalSpec{Process: "poisson", MeanGap: 3},
		Phases:    DistSpec{Type: "uniform", Params: map[string]float64{"min": 1, "max": 5}},
		Resources: []ResourceSpec{
			{Keyword: sim.KeywordCPU, Weight: 0.6, Duration: DistSpec{Type: "exponential", Params: map[string]float64{"mean": 6}}},
			{Keyword: sim.KeywordInput, Weight: 0.2, Duration: DistSpec{Type: "uniform", Params: map[string]float64{"min": 2, "max": 8}}},
			{Keyword: sim.KeywordIO, Weight: 0.2, Duration: DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 5, "std_dev": 2, "min": 1, "max": 12}}},
		},
	}
}

// LoadGeneratorSpec reads and parses a YAML generator specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadGeneratorSpec(path string) (*GeneratorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator spec: %w", err)
	}
	var spec GeneratorSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing generator spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *GeneratorSpec) Validate() error {
	if s.Processes <= 0 {
		return fmt.Errorf("processes must be positive, got %d", s.Processes)
	}
	if s.FirstPID < 0 {
		return fmt.Errorf("first_pid must be non-negative, got %d", s.FirstPID)
	}
	if !validArrivalProcesses[s.Arrival.Process] {
		return fmt.Errorf("unknown arrival process %q; valid: constant, poisson", s.Arrival.Process)
	}
	if math.IsNaN(s.Arrival.MeanGap) || math.IsInf(s.Arrival.MeanGap, 0) || s.Arrival.MeanGap < 0 {
		return fmt.Errorf("arrival.mean_gap must be a finite non-negative number, got %f", s.Arrival.MeanGap)
	}
	if err := validateDistSpec("phases", &s.Phases); err != nil {
		return err
	}
	if len(s.Resources) == 0 {
		return fmt.Errorf("at least one resource required")
	}
	for i, r := range s.Resources {
		prefix := fmt.Sprintf("resources[%d]", i)
		if !validKeywords[r.Keyword] {
			return fmt.Errorf("%s: unknown keyword %q; valid: CPU, INPUT, IO", prefix, r.Keyword)
		}
		if math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) || r.Weight <= 0 {
			return fmt.Errorf("%s: weight must be a finite positive number, got %f", prefix, r.Weight)
		}
		if err := validateDistSpec(prefix+".duration", &r.Duration); err != nil {
			return err
		}
	}
	return nil
}

func validateDistSpec(prefix string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return fmt.Errorf("%s: unknown distribution type %q; valid: constant, uniform, gaussian, exponential", prefix, d.Type)
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}
