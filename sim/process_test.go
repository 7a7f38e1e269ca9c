package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateOf(t *testing.T) {
	tests := []struct {
		phase PhaseKind
		want  ProcessState
	}{
		{PhaseCPUWait, StateReady},
		{PhaseCPUBusy, StateRunning},
		{PhaseInputBusy, StateWaiting},
		{PhaseInputWait, StateWaiting},
		{PhaseIOBusy, StateWaiting},
		{PhaseIOWait, StateWaiting},
		{PhaseTerminated, StateTerminated},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StateOf(tc.phase), "%s", tc.phase)
	}
	assert.Panics(t, func() { StateOf(PhaseStart) })
}

func TestProcessDirectory_AddIsIdempotent(t *testing.T) {
	// GIVEN a directory with process 4 that has accrued CPU time
	d := NewProcessDirectory()
	d.Add(4, 10)
	d.Accrue(4, CPU)

	// WHEN process 4 is added again
	rec := d.Add(4, 20)

	// THEN the original record is kept
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, int64(10), rec.StartTime)
	assert.Equal(t, int64(1), rec.ElapsedTime(CPU))
}

func TestProcessDirectory_NewRecordHoldsNoSlots(t *testing.T) {
	d := NewProcessDirectory()
	rec := d.Add(1, 0)
	for _, kind := range ResourceKinds {
		assert.Equal(t, NoSlot, rec.Slot(kind))
		assert.Equal(t, int64(0), rec.ElapsedTime(kind))
	}
}

func TestProcessDirectory_SetState_HoldsAtMostOneSlot(t *testing.T) {
	// GIVEN a process running on core 2
	d := NewProcessDirectory()
	d.Add(1, 0)
	d.SetState(1, PhaseCPUBusy, 2)
	require.Equal(t, 2, d.Get(1).Slot(CPU))
	assert.Equal(t, StateRunning, d.Get(1).State)

	// WHEN it moves on to the I/O device
	d.SetState(1, PhaseIOBusy, 0)

	// THEN the core is no longer recorded and the device is
	rec := d.Get(1)
	assert.Equal(t, NoSlot, rec.Slot(CPU))
	assert.Equal(t, 0, rec.Slot(IO))
	assert.Equal(t, StateWaiting, rec.State)

	// WHEN it is queued for input
	d.SetState(1, PhaseInputWait, NoSlot)

	// THEN it holds nothing
	for _, kind := range ResourceKinds {
		assert.Equal(t, NoSlot, rec.Slot(kind))
	}
}

func TestProcessDirectory_UnknownProcessPanics(t *testing.T) {
	d := NewProcessDirectory()
	assert.Nil(t, d.Get(3))
	assert.Panics(t, func() { d.Accrue(3, CPU) })
	assert.Panics(t, func() { d.SetState(3, PhaseCPUBusy, 0) })
}

func TestProcessDirectory_RecordsSortedByPID(t *testing.T) {
	d := NewProcessDirectory()
	for _, pid := range []int{9, 2, 5} {
		d.Add(pid, 0)
	}
	d.Remove(5)

	var pids []int
	for _, rec := range d.Records() {
		pids = append(pids, rec.PID)
	}
	assert.Equal(t, []int{2, 9}, pids)
}
