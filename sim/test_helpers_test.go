package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustParseWorkload parses an inline workload and fails the test on error.
func mustParseWorkload(t *testing.T, text string) []*TimelineEntry {
	t.Helper()
	entries, err := ParseWorkload(strings.NewReader(text))
	require.NoError(t, err)
	return entries
}

// newTestSimulator builds a simulator that checks slot conservation after
// every tick.
func newTestSimulator(t *testing.T, caps Capacities, text string) *Simulator {
	t.Helper()
	cfg := Config{Capacities: caps, CheckInvariants: true}
	s, err := NewSimulator(cfg, mustParseWorkload(t, text))
	require.NoError(t, err)
	return s
}

// runWorkload runs text to completion and returns the finished simulator.
func runWorkload(t *testing.T, caps Capacities, text string) *Simulator {
	t.Helper()
	s := newTestSimulator(t, caps, text)
	require.NotPanics(t, s.Run)
	return s
}

// busyTotals sums the declared busy durations per kind for each process.
func busyTotals(entries []*TimelineEntry) map[int][NumResourceKinds]int64 {
	out := make(map[int][NumResourceKinds]int64, len(entries))
	for _, e := range entries {
		var sums [NumResourceKinds]int64
		for _, p := range e.Chain {
			if p.Kind.IsBusy() {
				kind, _ := p.Kind.Resource()
				sums[kind] += p.Duration
			}
		}
		out[e.PID] = sums
	}
	return out
}

// waitTotal sums the spliced wait durations in a chain.
func waitTotal(c PhaseChain) int64 {
	var total int64
	for _, p := range c {
		if p.Kind.IsWait() {
			total += p.Duration
		}
	}
	return total
}
