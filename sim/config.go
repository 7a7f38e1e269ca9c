package sim

import (
	"fmt"
	"time"
)

// Default pool capacities.
const (
	DefaultCores        = 4
	DefaultInputDevices = 1
	DefaultIODevices    = 1
)

// Capacities groups the slot count of each resource pool.
type Capacities struct {
	Cores        int `yaml:"cores"`         // CPU cores (must be > 0)
	InputDevices int `yaml:"input_devices"` // input device slots (must be > 0)
	IODevices    int `yaml:"io_devices"`    // I/O device slots (must be > 0)
}

// NewCapacities groups pool capacities.
func NewCapacities(cores, inputDevices, ioDevices int) Capacities {
	return Capacities{Cores: cores, InputDevices: inputDevices, IODevices: ioDevices}
}

// DefaultCapacities returns 4 cores, 1 input device and 1 I/O device.
func DefaultCapacities() Capacities {
	return NewCapacities(DefaultCores, DefaultInputDevices, DefaultIODevices)
}

// Of returns the capacity configured for kind.
func (c Capacities) Of(kind ResourceKind) int {
	switch kind {
	case CPU:
		return c.Cores
	case Input:
		return c.InputDevices
	case IO:
		return c.IODevices
	default:
		panic(fmt.Sprintf("Capacities.Of: unrecognized resource kind %d", int(kind)))
	}
}

// Config groups everything NewSimulator needs besides the workload.
type Config struct {
	Capacities Capacities    `yaml:"capacities"`
	TickDelay  time.Duration `yaml:"tick_delay"` // real-time pacing between ticks; no logical effect
	// CheckInvariants verifies slot conservation and queue exclusivity
	// after every tick and panics on a violation.
	CheckInvariants bool `yaml:"check_invariants"`
}

// DefaultConfig returns the default capacities and no pacing delay.
func DefaultConfig() Config {
	return Config{Capacities: DefaultCapacities()}
}

// Validate checks that every pool has at least one slot and the delay is not negative.
func (c Config) Validate() error {
	for _, kind := range ResourceKinds {
		if n := c.Capacities.Of(kind); n < 1 {
			return fmt.Errorf("%s capacity must be at least 1, got %d", kind, n)
		}
	}
	if c.TickDelay < 0 {
		return fmt.Errorf("tick delay must not be negative, got %s", c.TickDelay)
	}
	return nil
}
