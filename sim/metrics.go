// Tracks simulation-wide and per-process scheduling statistics such as:
// grants and waits per resource kind, completion ticks and peak occupancy.

package sim

import (
	"fmt"
	"io"
	"sort"
)

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating contention and
// debugging behavior over time.
type Metrics struct {
	Grants        [NumResourceKinds]int   // slots granted per kind
	WaitsInserted [NumResourceKinds]int   // wait phases spliced in per kind
	WaitTicks     [NumResourceKinds]int64 // total ticks of spliced waits per kind
	PeakOccupied  [NumResourceKinds]int   // max simultaneously occupied slots per kind

	CompletionTimes map[int]int64                   // process id -> termination tick
	FinalElapsed    map[int][NumResourceKinds]int64 // process id -> busy ticks per kind at termination
	ReportTicks     []int64                         // ticks at which a system report was emitted
	SimEndedTime    int64
}

// NewMetrics returns empty metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CompletionTimes: make(map[int]int64),
		FinalElapsed:    make(map[int][NumResourceKinds]int64),
	}
}

func (m *Metrics) observeOccupancy(pools *Pools) {
	for _, kind := range ResourceKinds {
		m.PeakOccupied[kind] = max(m.PeakOccupied[kind], pools.Pool(kind).Occupied())
	}
}

// Print writes the end-of-run summary.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulation Length    : %d ticks\n", m.SimEndedTime)
	fmt.Fprintf(w, "Completed Processes  : %d\n", len(m.CompletionTimes))
	fmt.Fprintf(w, "System Reports       : %d\n", len(m.ReportTicks))
	for _, kind := range ResourceKinds {
		avgWait := 0.0
		if m.WaitsInserted[kind] > 0 {
			avgWait = float64(m.WaitTicks[kind]) / float64(m.WaitsInserted[kind])
		}
		fmt.Fprintf(w, "%-6s grants=%d waits=%d avg wait=%.2f ticks peak slots=%d\n",
			kind, m.Grants[kind], m.WaitsInserted[kind], avgWait, m.PeakOccupied[kind])
	}

	pids := make([]int, 0, len(m.CompletionTimes))
	for pid := range m.CompletionTimes {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	for _, pid := range pids {
		elapsed := m.FinalElapsed[pid]
		fmt.Fprintf(w, "PID %-5d terminated at %d (cpu=%d input=%d io=%d)\n",
			pid, m.CompletionTimes[pid], elapsed[CPU], elapsed[Input], elapsed[IO])
	}
}
