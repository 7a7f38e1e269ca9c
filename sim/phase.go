// Defines the Phase and PhaseChain types that model one process's workload
// as an ordered sequence of timed segments.

package sim

import "fmt"

// PhaseKind is the kind of one timed segment in a process's lifetime.
type PhaseKind int

const (
	PhaseStart PhaseKind = iota
	PhaseCPUBusy
	PhaseCPUWait
	PhaseInputBusy
	PhaseInputWait
	PhaseIOBusy
	PhaseIOWait
	// PhaseTerminated is the implicit sentinel reached once a process's
	// cumulative duration is exhausted. It is never stored in a chain.
	PhaseTerminated
)

var phaseKindNames = map[PhaseKind]string{
	PhaseStart:      "start",
	PhaseCPUBusy:    "cpu-busy",
	PhaseCPUWait:    "cpu-wait",
	PhaseInputBusy:  "input-busy",
	PhaseInputWait:  "input-wait",
	PhaseIOBusy:     "io-busy",
	PhaseIOWait:     "io-wait",
	PhaseTerminated: "terminated",
}

func (k PhaseKind) String() string {
	if name, ok := phaseKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PhaseKind(%d)", int(k))
}

// IsBusy reports whether the phase occupies a resource slot.
func (k PhaseKind) IsBusy() bool {
	return k == PhaseCPUBusy || k == PhaseInputBusy || k == PhaseIOBusy
}

// IsWait reports whether the phase is a synthetic wait inserted by the engine.
func (k PhaseKind) IsWait() bool {
	return k == PhaseCPUWait || k == PhaseInputWait || k == PhaseIOWait
}

// Resource returns the resource kind a busy or wait phase refers to.
func (k PhaseKind) Resource() (ResourceKind, bool) {
	switch k {
	case PhaseCPUBusy, PhaseCPUWait:
		return CPU, true
	case PhaseInputBusy, PhaseInputWait:
		return Input, true
	case PhaseIOBusy, PhaseIOWait:
		return IO, true
	default:
		return 0, false
	}
}

// BusyPhase returns the busy phase kind for a resource.
func BusyPhase(kind ResourceKind) PhaseKind {
	return [NumResourceKinds]PhaseKind{PhaseCPUBusy, PhaseInputBusy, PhaseIOBusy}[kind.mustIndex()]
}

// WaitPhase returns the synthetic wait phase kind for a resource.
func WaitPhase(kind ResourceKind) PhaseKind {
	return [NumResourceKinds]PhaseKind{PhaseCPUWait, PhaseInputWait, PhaseIOWait}[kind.mustIndex()]
}

// Phase is one timed segment of a process's workload.
type Phase struct {
	Kind     PhaseKind
	Duration int64
}

func (p Phase) String() string {
	return fmt.Sprintf("%s(%d)", p.Kind, p.Duration)
}

// PhaseChain is the ordered sequence of phases for one process. Index 0 is
// always the Start phase. Wait phases are spliced in with Insert.
type PhaseChain []Phase

// Total returns the sum of all phase durations.
func (c PhaseChain) Total() int64 {
	var total int64
	for _, p := range c {
		total += p.Duration
	}
	return total
}

// EndOf returns the cumulative tick at which phase idx ends.
func (c PhaseChain) EndOf(idx int) int64 {
	var end int64
	for i := 0; i <= idx; i++ {
		end += c[i].Duration
	}
	return end
}

// ActiveAt returns the index of the phase in progress at tick t: the first
// phase whose cumulative end lies strictly after t. Zero-length phases are
// never active. ok is false once t has reached the end of the chain.
func (c PhaseChain) ActiveAt(t int64) (idx int, ok bool) {
	var end int64
	for i, p := range c {
		end += p.Duration
		if end > t {
			return i, true
		}
	}
	return len(c), false
}

// LastCompletedAt returns the index of the last phase ending at or before t.
// The Start phase counts as completed even when t precedes its end.
func (c PhaseChain) LastCompletedAt(t int64) int {
	if len(c) == 0 {
		panic("LastCompletedAt: phase chain must not be empty")
	}
	idx := 0
	end := c[0].Duration
	for i := 1; i < len(c); i++ {
		end += c[i].Duration
		if end > t {
			break
		}
		idx = i
	}
	return idx
}

// CompletedAt returns the phase whose completion defines the boundary at t.
// When the last completed phase has zero length, the closest preceding
// phase that is either Start or non-empty is used instead, so that
// coinciding boundaries resolve to the phase that actually held a resource.
func (c PhaseChain) CompletedAt(t int64) int {
	idx := c.LastCompletedAt(t)
	for idx > 0 && c[idx].Duration == 0 {
		idx--
	}
	return idx
}

// Insert splices p in before position idx and returns the grown chain.
func (c PhaseChain) Insert(idx int, p Phase) PhaseChain {
	if idx < 0 || idx > len(c) {
		panic(fmt.Sprintf("Insert: index %d out of range [0, %d]", idx, len(c)))
	}
	c = append(c, Phase{})
	copy(c[idx+1:], c[idx:])
	c[idx] = p
	return c
}

// TimelineEntry is the engine's view of one process: its phase chain and
// the two times that grow whenever a wait phase is spliced in.
type TimelineEntry struct {
	PID            int
	TotalDuration  int64 // tick at which the process terminates
	NextUpdateTime int64 // tick at which the current phase ends
	Chain          PhaseChain
}

// StartTime returns the tick at which the Start phase completes.
func (e *TimelineEntry) StartTime() int64 {
	if len(e.Chain) == 0 {
		panic(fmt.Sprintf("StartTime: process %d has an empty phase chain", e.PID))
	}
	return e.Chain[0].Duration
}

// PhaseAt returns the kind of phase active at t, or PhaseTerminated once t
// has reached TotalDuration.
func (e *TimelineEntry) PhaseAt(t int64) PhaseKind {
	if t >= e.TotalDuration {
		return PhaseTerminated
	}
	idx, ok := e.Chain.ActiveAt(t)
	if !ok {
		return PhaseTerminated
	}
	return e.Chain[idx].Kind
}
