package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEstimatorSimulator(t *testing.T, chains ...PhaseChain) *Simulator {
	t.Helper()
	entries := make([]*TimelineEntry, len(chains))
	for i, c := range chains {
		entries[i] = &TimelineEntry{PID: i + 1, Chain: c, TotalDuration: c.Total(), NextUpdateTime: c[0].Duration}
	}
	s, err := NewSimulator(Config{Capacities: NewCapacities(4, 4, 4)}, entries)
	require.NoError(t, err)
	return s
}

// holdSlot grants e the slot of kind for the busy phase active at now, the
// way a resolved grant leaves it.
func holdSlot(t *testing.T, s *Simulator, e *TimelineEntry, kind ResourceKind, now int64) {
	t.Helper()
	slot, ok := s.Pools.Request(kind)
	require.True(t, ok)
	s.Directory.Add(e.PID, e.StartTime())
	s.Directory.SetState(e.PID, BusyPhase(kind), slot)
	idx, active := e.Chain.ActiveAt(now)
	require.True(t, active)
	e.NextUpdateTime = e.Chain.EndOf(idx)
}

func TestEstimateWait_BusyHolders_ShortestRemaining(t *testing.T) {
	// GIVEN two processes running until ticks 10 and 5, and a newcomer
	s := newEstimatorSimulator(t,
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseCPUBusy, Duration: 10}},
		PhaseChain{{Kind: PhaseStart, Duration: 1}, {Kind: PhaseCPUBusy, Duration: 4}},
		PhaseChain{{Kind: PhaseStart, Duration: 3}, {Kind: PhaseCPUBusy, Duration: 2}},
	)
	holdSlot(t, s, s.Entries[0], CPU, 3)
	holdSlot(t, s, s.Entries[1], CPU, 3)

	// WHEN the newcomer's wait is sized at tick 3
	wait, ok := s.estimateWait(s.Entries[2], CPU, 3)

	// THEN it waits for the earliest release
	assert.True(t, ok)
	assert.Equal(t, int64(2), wait)
}

func TestEstimateWait_QueuedWaiter_PushesEstimateBeyondIt(t *testing.T) {
	// GIVEN a holder releasing at 10 and a waiter whose wait ends at 10
	// and who then uses the core for 5 ticks
	s := newEstimatorSimulator(t,
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseCPUBusy, Duration: 10}},
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseCPUWait, Duration: 10}, {Kind: PhaseCPUBusy, Duration: 5}},
		PhaseChain{{Kind: PhaseStart, Duration: 3}, {Kind: PhaseCPUBusy, Duration: 2}},
	)
	holdSlot(t, s, s.Entries[0], CPU, 3)
	s.Entries[1].NextUpdateTime = 10

	// WHEN a third process queues at tick 3
	wait, ok := s.estimateWait(s.Entries[2], CPU, 3)

	// THEN the slot the waiter will take is skipped: 7 remaining + 5 usage
	assert.True(t, ok)
	assert.Equal(t, int64(12), wait)
}

func TestEstimateWait_IgnoresOtherResources(t *testing.T) {
	// GIVEN the only other process is using the I/O device
	s := newEstimatorSimulator(t,
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseIOBusy, Duration: 6}},
		PhaseChain{{Kind: PhaseStart, Duration: 1}, {Kind: PhaseCPUBusy, Duration: 2}},
	)
	holdSlot(t, s, s.Entries[0], IO, 1)

	// WHEN a CPU wait is sized
	_, ok := s.estimateWait(s.Entries[1], CPU, 1)

	// THEN no process will free a core
	assert.False(t, ok)

	// AND the I/O estimate sees the device holder
	wait, ok := s.estimateWait(s.Entries[1], IO, 1)
	assert.True(t, ok)
	assert.Equal(t, int64(5), wait)
}

func TestEstimateWait_SkipsFinishedAndDeferredEntries(t *testing.T) {
	// GIVEN one process that finished at tick 4 and one whose grant is deferred
	s := newEstimatorSimulator(t,
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseCPUBusy, Duration: 4}},
		PhaseChain{{Kind: PhaseStart, Duration: 4}, {Kind: PhaseCPUBusy, Duration: 3}},
		PhaseChain{{Kind: PhaseStart, Duration: 4}, {Kind: PhaseCPUBusy, Duration: 1}},
	)
	s.deferred[s.Entries[1]] = true

	// WHEN the third process sizes a wait at tick 4
	_, ok := s.estimateWait(s.Entries[2], CPU, 4)

	// THEN neither counts as a future release
	assert.False(t, ok)
}

func TestEstimateWait_UnresolvedArrival_IsNotAHolder(t *testing.T) {
	// GIVEN a holder releasing at 5 and a later entry whose CPU phase also
	// begins at tick 1 but has not been granted yet
	s := newEstimatorSimulator(t,
		PhaseChain{{Kind: PhaseStart, Duration: 1}, {Kind: PhaseCPUBusy, Duration: 5}},
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseCPUBusy, Duration: 5}},
		PhaseChain{{Kind: PhaseStart, Duration: 1}, {Kind: PhaseCPUBusy, Duration: 1}},
	)
	holdSlot(t, s, s.Entries[1], CPU, 1)

	// WHEN the first entry sizes its wait at tick 1
	wait, ok := s.estimateWait(s.Entries[0], CPU, 1)

	// THEN only the real holder's release counts
	assert.True(t, ok)
	assert.Equal(t, int64(4), wait)
}

func TestEstimateWait_HolderAtBoundary_IsNotAHolder(t *testing.T) {
	// GIVEN a holder whose first CPU phase ends at tick 2, followed by a
	// second CPU phase it has to be admitted to again
	s := newEstimatorSimulator(t,
		PhaseChain{{Kind: PhaseStart, Duration: 0}, {Kind: PhaseCPUBusy, Duration: 2}, {Kind: PhaseCPUBusy, Duration: 4}},
		PhaseChain{{Kind: PhaseStart, Duration: 2}, {Kind: PhaseCPUBusy, Duration: 1}},
	)
	holdSlot(t, s, s.Entries[0], CPU, 0)

	// WHEN a newcomer sizes a wait at tick 2 before the holder is resolved
	_, ok := s.estimateWait(s.Entries[1], CPU, 2)

	// THEN the second phase is not treated as an ongoing hold
	assert.False(t, ok)
}
