package workload

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"

	"github.com/procsim/procsim/sim"
)

// Phase is one generated busy phase.
type Phase struct {
	Keyword  string
	Duration int64
}

// Process is one generated process declaration.
type Process struct {
	PID    int
	Start  int64
	Phases []Phase
}

// GenerateProcesses creates a process sequence from a GeneratorSpec.
// Deterministic given the same spec and seed.
// Returns processes in start order with sequential ids from FirstPID.
func GenerateProcesses(spec *GeneratorSpec) ([]Process, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator spec: %w", err)
	}

	// Arrivals and phases draw from separate streams so changing the phase
	// mix leaves the start ticks unchanged.
	streams := sim.NewSeededStreams(spec.Seed)
	arrivalRNG := streams.Stream(sim.StreamArrivals)
	phaseRNG := streams.Stream(sim.StreamPhases)

	arrivals := NewArrivalSampler(spec.Arrival)
	phaseCount, err := NewTickSampler(spec.Phases)
	if err != nil {
		return nil, fmt.Errorf("phases distribution: %w", err)
	}
	durations := make([]TickSampler, len(spec.Resources))
	for i, r := range spec.Resources {
		if durations[i], err = NewTickSampler(r.Duration); err != nil {
			return nil, fmt.Errorf("%s duration distribution: %w", r.Keyword, err)
		}
	}

	procs := make([]Process, 0, spec.Processes)
	var start int64
	for i := 0; i < spec.Processes; i++ {
		if i > 0 {
			start += arrivals.SampleGap(arrivalRNG)
		}
		n := phaseCount.Sample(phaseRNG)
		p := Process{PID: spec.FirstPID + i, Start: start, Phases: make([]Phase, 0, n)}
		for j := int64(0); j < n; j++ {
			r := pickResource(spec.Resources, phaseRNG)
			p.Phases = append(p.Phases, Phase{
				Keyword:  spec.Resources[r].Keyword,
				Duration: durations[r].Sample(phaseRNG),
			})
		}
		procs = append(procs, p)
	}
	return procs, nil
}

// pickResource selects a resource index with probability proportional to its weight.
func pickResource(resources []ResourceSpec, rng *rand.Rand) int {
	var total float64
	for _, r := range resources {
		total += r.Weight
	}
	u := rng.Float64() * total
	for i, r := range resources {
		u -= r.Weight
		if u < 0 {
			return i
		}
	}
	return len(resources) - 1
}

// WriteWorkload renders procs in the keyword/value format read by sim.ParseWorkload.
func WriteWorkload(w io.Writer, procs []Process) error {
	bw := bufio.NewWriter(w)
	for _, p := range procs {
		fmt.Fprintf(bw, "%s %d\n%s %d\n", sim.KeywordNew, p.PID, sim.KeywordStart, p.Start)
		for _, ph := range p.Phases {
			fmt.Fprintf(bw, "%s %d\n", ph.Keyword, ph.Duration)
		}
	}
	return bw.Flush()
}
