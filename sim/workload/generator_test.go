package workload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procsim/procsim/sim"
)

func TestGenerateProcesses_SameSeed_SameWorkload(t *testing.T) {
	// GIVEN the default spec generated twice
	a, err := GenerateProcesses(DefaultGeneratorSpec())
	require.NoError(t, err)
	b, err := GenerateProcesses(DefaultGeneratorSpec())
	require.NoError(t, err)

	// THEN the outputs are identical
	assert.Equal(t, a, b)
}

func TestGenerateProcesses_DifferentSeeds_DifferentWorkloads(t *testing.T) {
	s1, s2 := DefaultGeneratorSpec(), DefaultGeneratorSpec()
	s2.Seed = s1.Seed + 1

	a, err := GenerateProcesses(s1)
	require.NoError(t, err)
	b, err := GenerateProcesses(s2)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerateProcesses_StartsAreOrderedAndIDsSequential(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.FirstPID = 10
	procs, err := GenerateProcesses(spec)
	require.NoError(t, err)

	require.Len(t, procs, spec.Processes)
	assert.Equal(t, int64(0), procs[0].Start)
	for i, p := range procs {
		assert.Equal(t, 10+i, p.PID)
		assert.NotEmpty(t, p.Phases)
		if i > 0 {
			assert.GreaterOrEqual(t, p.Start, procs[i-1].Start)
		}
		for _, ph := range p.Phases {
			assert.GreaterOrEqual(t, ph.Duration, int64(1))
		}
	}
}

func TestGenerateProcesses_ConstantArrivals(t *testing.T) {
	spec := DefaultGeneratorSpec()
	spec.Processes = 4
	spec.Arrival = ArrivalSpec{Process: "constant", MeanGap: 5}

	procs, err := GenerateProcesses(spec)
	require.NoError(t, err)

	var starts []int64
	for _, p := range procs {
		starts = append(starts, p.Start)
	}
	assert.Equal(t, []int64{0, 5, 10, 15}, starts)
}

func TestGenerateProcesses_PhaseMixDoesNotMoveArrivals(t *testing.T) {
	// GIVEN two specs that differ only in their phase mix
	s1, s2 := DefaultGeneratorSpec(), DefaultGeneratorSpec()
	s2.Resources = s2.Resources[:1]

	a, err := GenerateProcesses(s1)
	require.NoError(t, err)
	b, err := GenerateProcesses(s2)
	require.NoError(t, err)

	// THEN start ticks are unchanged
	for i := range a {
		assert.Equal(t, a[i].Start, b[i].Start, "process %d", a[i].PID)
	}
}

func TestWriteWorkload_RoundTripsThroughParser(t *testing.T) {
	// GIVEN a generated workload rendered as text
	spec := DefaultGeneratorSpec()
	spec.Processes = 20
	procs, err := GenerateProcesses(spec)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteWorkload(&buf, procs))

	// WHEN parsed and simulated on the default pools with invariant checks
	entries, err := sim.ParseWorkload(&buf)
	require.NoError(t, err)
	require.Len(t, entries, len(procs))
	for i, e := range entries {
		assert.Equal(t, procs[i].PID, e.PID)
		assert.Equal(t, procs[i].Start, e.StartTime())
		assert.Len(t, e.Chain, len(procs[i].Phases)+1)
	}
	cfg := sim.DefaultConfig()
	cfg.CheckInvariants = true
	s, err := sim.NewSimulator(cfg, entries)
	require.NoError(t, err)

	// THEN every process terminates
	require.NotPanics(t, s.Run)
	assert.Len(t, s.Metrics.CompletionTimes, len(procs))
}

func TestWriteWorkload_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkload(&buf, []Process{
		{PID: 1, Start: 3, Phases: []Phase{{Keyword: "CPU", Duration: 4}, {Keyword: "IO", Duration: 2}}},
	}))
	assert.Equal(t, "NEW 1\nSTART 3\nCPU 4\nIO 2\n", buf.String())
}
