// Defines the ProcessRecord held in the process directory and its coarse,
// externally visible state.

package sim

import (
	"fmt"
	"sort"
)

// ProcessState is the coarse state shown in reports.
type ProcessState string

const (
	StateReady      ProcessState = "READY"
	StateRunning    ProcessState = "RUNNING"
	StateWaiting    ProcessState = "WAITING"
	StateTerminated ProcessState = "TERMINATED"
)

// StateOf projects a phase kind onto the coarse process state. A process
// waiting for a core is Ready; one using or waiting for a device is Waiting.
func StateOf(kind PhaseKind) ProcessState {
	switch kind {
	case PhaseCPUWait:
		return StateReady
	case PhaseCPUBusy:
		return StateRunning
	case PhaseInputBusy, PhaseInputWait, PhaseIOBusy, PhaseIOWait:
		return StateWaiting
	case PhaseTerminated:
		return StateTerminated
	default:
		panic(fmt.Sprintf("StateOf: phase %s has no process state", kind))
	}
}

// ProcessRecord tracks one live process: accumulated busy time per
// resource kind and the slot it currently holds, if any.
type ProcessRecord struct {
	PID       int
	StartTime int64
	Elapsed   [NumResourceKinds]int64 // busy ticks accrued per kind
	Slots     [NumResourceKinds]int   // held slot per kind, NoSlot if none
	State     ProcessState
}

func newProcessRecord(pid int, startTime int64) *ProcessRecord {
	rec := &ProcessRecord{PID: pid, StartTime: startTime}
	rec.clearSlots()
	return rec
}

func (r *ProcessRecord) clearSlots() {
	for i := range r.Slots {
		r.Slots[i] = NoSlot
	}
}

// Slot returns the slot held for kind, or NoSlot.
func (r *ProcessRecord) Slot(kind ResourceKind) int {
	return r.Slots[kind.mustIndex()]
}

// ElapsedTime returns the busy ticks accrued for kind.
func (r *ProcessRecord) ElapsedTime(kind ResourceKind) int64 {
	return r.Elapsed[kind.mustIndex()]
}

func (r ProcessRecord) String() string {
	return fmt.Sprintf("Process: (PID: %d, State: %s, Start: %d, CPU: %d, Input: %d, IO: %d)",
		r.PID, r.State, r.StartTime, r.Elapsed[CPU], r.Elapsed[Input], r.Elapsed[IO])
}

// ProcessDirectory is the table of live processes keyed by process id.
// Entries are created and removed only by the Simulator.
type ProcessDirectory struct {
	records map[int]*ProcessRecord
}

// NewProcessDirectory returns an empty directory.
func NewProcessDirectory() *ProcessDirectory {
	return &ProcessDirectory{records: make(map[int]*ProcessRecord)}
}

// Add creates the record for pid. Adding a live pid again keeps the existing record.
func (d *ProcessDirectory) Add(pid int, startTime int64) *ProcessRecord {
	if rec, ok := d.records[pid]; ok {
		return rec
	}
	rec := newProcessRecord(pid, startTime)
	d.records[pid] = rec
	return rec
}

// Get returns the record for pid, or nil.
func (d *ProcessDirectory) Get(pid int) *ProcessRecord {
	return d.records[pid]
}

// Remove drops the record for pid.
func (d *ProcessDirectory) Remove(pid int) {
	delete(d.records, pid)
}

// Len returns the number of live processes.
func (d *ProcessDirectory) Len() int {
	return len(d.records)
}

// Accrue adds one busy tick for kind to pid's record.
func (d *ProcessDirectory) Accrue(pid int, kind ResourceKind) {
	rec := d.mustGet(pid, "Accrue")
	rec.Elapsed[kind.mustIndex()]++
}

// SetState records the coarse state for pid and the slot it now holds.
// All other slots are cleared: a process holds at most one slot at a time.
func (d *ProcessDirectory) SetState(pid int, phase PhaseKind, slot int) {
	rec := d.mustGet(pid, "SetState")
	rec.State = StateOf(phase)
	rec.clearSlots()
	if kind, ok := phase.Resource(); ok && phase.IsBusy() {
		rec.Slots[kind] = slot
	}
}

// Records returns the live records ordered by process id.
func (d *ProcessDirectory) Records() []*ProcessRecord {
	out := make([]*ProcessRecord, 0, len(d.records))
	for _, rec := range d.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

func (d *ProcessDirectory) mustGet(pid int, op string) *ProcessRecord {
	rec, ok := d.records[pid]
	if !ok {
		panic(fmt.Sprintf("%s: process %d is not in the directory", op, pid))
	}
	return rec
}
