package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Event is a decision deferred until every timeline entry has taken its
// primary action for the current tick.
type Event interface {
	Timestamp() int64
	Priority() int
	Execute(*Simulator)
}

// Deferred events run in this order within a tick.
const (
	priorityPromoteCPU = iota
	priorityPromoteInput
	priorityPromoteIO
	priorityRetry
	priorityReport
)

// EventQueue implements heap.Interface with deterministic ordering:
// timestamp → priority → scheduling order.
type EventQueue struct {
	events []queuedEvent
	seq    int64
}

type queuedEvent struct {
	Event
	seq int64
}

func (eq *EventQueue) Len() int { return len(eq.events) }

func (eq *EventQueue) Less(i, j int) bool {
	ei, ej := eq.events[i], eq.events[j]
	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}
	if ei.Priority() != ej.Priority() {
		return ei.Priority() < ej.Priority()
	}
	return ei.seq < ej.seq
}

func (eq *EventQueue) Swap(i, j int) { eq.events[i], eq.events[j] = eq.events[j], eq.events[i] }

func (eq *EventQueue) Push(x any) {
	eq.events = append(eq.events, x.(queuedEvent))
}

func (eq *EventQueue) Pop() any {
	old := eq.events
	n := len(old)
	item := old[n-1]
	eq.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the queue.
func (eq *EventQueue) Schedule(ev Event) {
	eq.seq++
	heap.Push(eq, queuedEvent{Event: ev, seq: eq.seq})
}

// PopNext removes and returns the next event, or nil when empty.
func (eq *EventQueue) PopNext() Event {
	if eq.Len() == 0 {
		return nil
	}
	return heap.Pop(eq).(queuedEvent).Event
}

// PromotedGrantEvent grants a slot to a process whose wait phase just
// ended. The wait was sized to end exactly when a slot frees, waits end in
// queue order, and promoted grants run before any other same-tick
// contender, so the slot is always there.
type PromotedGrantEvent struct {
	time  int64
	Kind  ResourceKind
	Entry *TimelineEntry
}

func (e *PromotedGrantEvent) Timestamp() int64 { return e.time }

func (e *PromotedGrantEvent) Priority() int { return priorityPromoteCPU + int(e.Kind) }

// Execute grants the reserved slot.
func (e *PromotedGrantEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< PromotedGrant: process %d (%s) at %d ticks", e.Entry.PID, e.Kind, e.time)
	if !sim.grant(e.Entry, e.Kind, e.time) {
		panic(fmt.Sprintf("PromotedGrantEvent: no free %s slot for promoted process %d at tick %d", e.Kind, e.Entry.PID, e.time))
	}
}

// RetryEvent re-attempts a grant that was deferred earlier in the tick.
// If the slot is still unavailable the process is given a wait phase.
type RetryEvent struct {
	time  int64
	Kind  ResourceKind
	Entry *TimelineEntry
}

func (e *RetryEvent) Timestamp() int64 { return e.time }

func (e *RetryEvent) Priority() int { return priorityRetry }

// Execute grants a slot or queues the process.
func (e *RetryEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Retry: process %d (%s) at %d ticks", e.Entry.PID, e.Kind, e.time)
	if sim.Pools.Available(e.Kind) {
		sim.grant(e.Entry, e.Kind, e.time)
		return
	}
	if !sim.wait(e.Entry, e.Kind, e.time) {
		// Every slot holder has taken its action by now, so one of them
		// must be visible to the estimator.
		panic("RetryEvent: cannot size a " + e.Kind.String() + " wait after all entries were resolved")
	}
}

// ReportEvent emits the end-of-tick system report and then removes the
// processes that terminated during the tick.
type ReportEvent struct {
	time    int64
	Entries []*TimelineEntry
}

func (e *ReportEvent) Timestamp() int64 { return e.time }

func (e *ReportEvent) Priority() int { return priorityReport }

// Execute reports before removal so the terminated processes appear in it.
func (e *ReportEvent) Execute(sim *Simulator) {
	logrus.Infof("<< Report: %d process(es) terminated at %d ticks", len(e.Entries), e.time)
	sim.report()
	for _, entry := range e.Entries {
		sim.Directory.Remove(entry.PID)
	}
}
