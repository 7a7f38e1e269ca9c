// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/procsim/procsim/sim/trace"
)

// Simulator is the core object that holds simulation time, system state, and the tick loop.
type Simulator struct {
	Clock  int64
	Config Config
	// Entries holds one timeline entry per process, in creation order.
	// Within a tick, entries are always resolved in this order.
	Entries   []*TimelineEntry
	Pools     *Pools
	Directory *ProcessDirectory
	// WaitQs holds one FIFO queue of blocked process ids per resource kind.
	WaitQs [NumResourceKinds]*WaitQueue
	// EventQueue holds the decisions deferred to the end of the current tick.
	EventQueue *EventQueue
	Metrics    *Metrics
	// Reports holds every system snapshot emitted so far.
	Reports []Snapshot
	// ReportWriter receives the rendered reports; nil renders nothing.
	ReportWriter io.Writer
	// Trace records transitions when non-nil and enabled.
	Trace *trace.SimulationTrace

	// per-tick bookkeeping
	promoted   [NumResourceKinds]int
	deferred   map[*TimelineEntry]bool
	terminated []*TimelineEntry
}

// NewSimulator builds a simulator over parsed timeline entries.
func NewSimulator(cfg Config, entries []*TimelineEntry) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNoWorkload
	}
	s := &Simulator{
		Config:     cfg,
		Entries:    entries,
		Pools:      NewPools(cfg.Capacities),
		Directory:  NewProcessDirectory(),
		EventQueue: &EventQueue{},
		Metrics:    NewMetrics(),
		deferred:   make(map[*TimelineEntry]bool),
	}
	for _, kind := range ResourceKinds {
		s.WaitQs[kind] = &WaitQueue{Kind: kind}
	}
	return s, nil
}

// Horizon returns the largest TotalDuration across all entries. It grows
// whenever a wait phase is spliced in, so it is recomputed on every call.
func (sim *Simulator) Horizon() int64 {
	var horizon int64
	for _, e := range sim.Entries {
		horizon = max(horizon, e.TotalDuration)
	}
	return horizon
}

// Run drives the clock from tick 0 until the current tick reaches the horizon.
func (sim *Simulator) Run() {
	_ = sim.RunContext(context.Background())
}

// RunContext is Run with cancellation. Cancelling ctx stops the run before
// the next tick or during the pacing delay, and returns the context's error.
func (sim *Simulator) RunContext(ctx context.Context) error {
	logrus.Infof("Starting simulation with %d process(es), capacities=%+v, initial horizon=%d ticks",
		len(sim.Entries), sim.Config.Capacities, sim.Horizon())
	for now := int64(0); ; now++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation stopped before tick %d: %w", now, err)
		}
		sim.Tick(now)
		if now >= sim.Horizon() {
			break
		}
		if err := sim.pace(ctx); err != nil {
			return fmt.Errorf("simulation stopped after tick %d: %w", now, err)
		}
	}
	sim.Metrics.SimEndedTime = sim.Clock
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// pace sleeps for the configured tick delay unless ctx is done first.
func (sim *Simulator) pace(ctx context.Context) error {
	if sim.Config.TickDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(sim.Config.TickDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tick resolves every entry at tick now, then replays the decisions that
// had to wait for all entries to act: promoted waiters first, then
// deferred grants in arrival order, then the termination report.
func (sim *Simulator) Tick(now int64) {
	sim.Clock = now
	sim.promoted = [NumResourceKinds]int{}
	clear(sim.deferred)
	sim.terminated = sim.terminated[:0]

	for _, e := range sim.Entries {
		// not yet loaded, or already gone
		if now < e.StartTime() || now > e.TotalDuration {
			continue
		}
		if now == e.NextUpdateTime {
			sim.resolveBoundary(e, now)
		} else {
			sim.accrue(e, now)
		}
	}

	if len(sim.terminated) > 0 {
		entries := make([]*TimelineEntry, len(sim.terminated))
		copy(entries, sim.terminated)
		sim.EventQueue.Schedule(&ReportEvent{time: now, Entries: entries})
	}
	for ev := sim.EventQueue.PopNext(); ev != nil; ev = sim.EventQueue.PopNext() {
		ev.Execute(sim)
	}

	sim.Metrics.observeOccupancy(sim.Pools)
	if sim.Config.CheckInvariants {
		if err := sim.CheckInvariants(); err != nil {
			panic(fmt.Sprintf("Tick %d: %v", now, err))
		}
	}
}

// accrue adds one tick of usage to the busy phase active at now.
// Wait phases accrue nothing.
func (sim *Simulator) accrue(e *TimelineEntry, now int64) {
	phase := e.PhaseAt(now)
	if !phase.IsBusy() {
		return
	}
	kind, _ := phase.Resource()
	sim.Directory.Accrue(e.PID, kind)
}

// resolveBoundary handles the end of e's current phase at now.
func (sim *Simulator) resolveBoundary(e *TimelineEntry, now int64) {
	completed := e.Chain[e.Chain.CompletedAt(now)]
	sim.release(e, completed, now)

	next := e.PhaseAt(now)
	switch {
	case next == PhaseTerminated:
		sim.terminate(e, now)
	case next.IsBusy():
		kind, _ := next.Resource()
		if completed.Kind == PhaseStart {
			sim.Directory.Add(e.PID, now)
		}
		sim.admit(e, kind, completed.Kind, now)
	default:
		panic(fmt.Sprintf("resolveBoundary: process %d cannot begin phase %s at tick %d", e.PID, next, now))
	}
}

// release returns the slot held by a completed busy phase and accrues its final tick.
func (sim *Simulator) release(e *TimelineEntry, completed Phase, now int64) {
	if !completed.Kind.IsBusy() {
		return
	}
	rec := sim.Directory.Get(e.PID)
	if rec == nil {
		return
	}
	kind, _ := completed.Kind.Resource()
	slot := rec.Slot(kind)
	if slot == NoSlot {
		return
	}
	sim.Pools.Release(kind, slot)
	rec.Slots[kind] = NoSlot
	rec.Elapsed[kind]++
	logrus.Infof("[tick %07d] Process %d released %s slot %d", now, e.PID, kind, slot)
	sim.Trace.RecordTransition(trace.TransitionRecord{
		Clock: now, PID: e.PID, Kind: trace.TransitionRelease, Resource: kind.String(), Slot: slot,
	})
}

// admit decides whether e gets a slot of kind now, later this tick, or
// after a spliced wait phase.
func (sim *Simulator) admit(e *TimelineEntry, kind ResourceKind, completed PhaseKind, now int64) {
	if completed.IsWait() {
		if waited, _ := completed.Resource(); waited != kind {
			panic(fmt.Sprintf("admit: process %d waited for %s but now needs %s", e.PID, waited, kind))
		}
		// the waiter leaves its queue now; its slot is granted after all entries act
		sim.WaitQs[kind].DequeueExpected(e.PID)
		sim.promoted[kind]++
		sim.EventQueue.Schedule(&PromotedGrantEvent{time: now, Kind: kind, Entry: e})
		return
	}

	if sim.promoted[kind] > 0 || sim.WaitQs[kind].Len() > 0 {
		sim.deferGrant(e, kind, now)
		return
	}
	if sim.grant(e, kind, now) {
		return
	}
	if !sim.wait(e, kind, now) {
		// a holder may still release its slot later in this tick
		sim.deferGrant(e, kind, now)
	}
}

func (sim *Simulator) deferGrant(e *TimelineEntry, kind ResourceKind, now int64) {
	logrus.Debugf("[tick %07d] Process %d deferred for %s", now, e.PID, kind)
	sim.deferred[e] = true
	sim.EventQueue.Schedule(&RetryEvent{time: now, Kind: kind, Entry: e})
}

// grant requests a slot of kind for e. It returns false if none is free.
func (sim *Simulator) grant(e *TimelineEntry, kind ResourceKind, now int64) bool {
	slot, ok := sim.Pools.Request(kind)
	if !ok {
		return false
	}
	delete(sim.deferred, e)
	sim.Directory.SetState(e.PID, BusyPhase(kind), slot)
	idx, active := e.Chain.ActiveAt(now)
	if !active {
		panic(fmt.Sprintf("grant: process %d has no active phase at tick %d", e.PID, now))
	}
	e.NextUpdateTime = e.Chain.EndOf(idx)
	sim.Metrics.Grants[kind]++

	logrus.Infof("[tick %07d] Process %d granted %s slot %d until tick %d", now, e.PID, kind, slot, e.NextUpdateTime)
	sim.Trace.RecordTransition(trace.TransitionRecord{
		Clock: now, PID: e.PID, Kind: trace.TransitionGrant, Resource: kind.String(), Slot: slot,
	})
	return true
}

// wait splices a wait phase for kind in front of e's pending busy phase and
// queues e. It returns false if no wait can be sized this tick.
func (sim *Simulator) wait(e *TimelineEntry, kind ResourceKind, now int64) bool {
	d, ok := sim.estimateWait(e, kind, now)
	if !ok {
		return false
	}
	idx, active := e.Chain.ActiveAt(now)
	if !active || !e.Chain[idx].Kind.IsBusy() {
		panic(fmt.Sprintf("wait: process %d has no pending busy phase at tick %d", e.PID, now))
	}
	e.Chain = e.Chain.Insert(idx, Phase{Kind: WaitPhase(kind), Duration: d})
	e.TotalDuration += d
	e.NextUpdateTime = now + d

	delete(sim.deferred, e)
	sim.WaitQs[kind].Enqueue(e.PID)
	sim.Directory.SetState(e.PID, WaitPhase(kind), NoSlot)
	sim.Metrics.WaitsInserted[kind]++
	sim.Metrics.WaitTicks[kind] += d

	logrus.Infof("[tick %07d] Process %d waits %d tick(s) for %s (queue position %d)", now, e.PID, d, kind, sim.WaitQs[kind].Len())
	sim.Trace.RecordTransition(trace.TransitionRecord{
		Clock: now, PID: e.PID, Kind: trace.TransitionWait, Resource: kind.String(), Slot: NoSlot, Wait: d,
	})
	return true
}

// terminate marks e terminated; its record is removed after the tick's report.
func (sim *Simulator) terminate(e *TimelineEntry, now int64) {
	if rec := sim.Directory.Get(e.PID); rec != nil {
		sim.Directory.SetState(e.PID, PhaseTerminated, NoSlot)
		sim.Metrics.FinalElapsed[e.PID] = rec.Elapsed
	}
	sim.Metrics.CompletionTimes[e.PID] = now
	sim.terminated = append(sim.terminated, e)

	logrus.Infof("[tick %07d] Process %d terminated", now, e.PID)
	sim.Trace.RecordTransition(trace.TransitionRecord{
		Clock: now, PID: e.PID, Kind: trace.TransitionTerminate, Slot: NoSlot,
	})
}

// report captures a snapshot, keeps it and renders it if a writer is set.
func (sim *Simulator) report() {
	snap := sim.Snapshot()
	sim.Reports = append(sim.Reports, snap)
	sim.Metrics.ReportTicks = append(sim.Metrics.ReportTicks, snap.Clock)
	if sim.ReportWriter != nil {
		if err := WriteReport(sim.ReportWriter, snap); err != nil {
			logrus.Errorf("writing report for tick %d: %v", snap.Clock, err)
		}
	}
}
