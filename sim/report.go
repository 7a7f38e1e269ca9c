// Builds and renders the system report emitted on every tick in which a
// process terminates.

package sim

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Snapshot is a read-only copy of the system state at one tick.
type Snapshot struct {
	Clock     int64
	Slots     [NumResourceKinds][]bool // occupancy per slot, per kind
	Queues    [NumResourceKinds][]int  // wait queue contents in FIFO order
	Processes []ProcessRecord          // directory rows ordered by process id
}

// Snapshot captures the current state. It does not modify the simulator.
func (sim *Simulator) Snapshot() Snapshot {
	snap := Snapshot{Clock: sim.Clock}
	for _, kind := range ResourceKinds {
		snap.Slots[kind] = sim.Pools.Pool(kind).Slots()
		snap.Queues[kind] = sim.WaitQs[kind].Items()
	}
	for _, rec := range sim.Directory.Records() {
		snap.Processes = append(snap.Processes, *rec)
	}
	return snap
}

// reportOrder is the order resources and queues are listed in a report.
var reportOrder = []ResourceKind{CPU, IO, Input}

var queueTitles = map[ResourceKind]string{
	CPU:   "CPU Ready Queue",
	IO:    "I/O Queue",
	Input: "Input Queue",
}

// WriteReport renders snap in the human-readable report layout.
func WriteReport(w io.Writer, snap Snapshot) error {
	var sb strings.Builder
	banner := strings.Repeat("*", 29)
	fmt.Fprintf(&sb, "%s\nTime Elapsed: %d ticks\n%s\n\n", banner, snap.Clock, banner)

	sb.WriteString("-- STATE OF RESOURCES --\n\n")
	for _, kind := range reportOrder {
		table := newReportTable(&sb, []string{kind.String(), "Status"})
		for slot, busy := range snap.Slots[kind] {
			status := "IDLE"
			if busy {
				status = "BUSY"
			}
			table.Append([]string{strconv.Itoa(slot), status})
		}
		table.Render()
		sb.WriteString("\n")
	}

	sb.WriteString("-- RESOURCE QUEUES --\n\n")
	for _, kind := range reportOrder {
		fmt.Fprintf(&sb, "%s\n%s\n\n", queueTitles[kind], formatQueue(snap.Queues[kind]))
	}

	sb.WriteString("-- PROCESSES IN MEMORY --\n\n")
	table := newReportTable(&sb, []string{
		"Process ID", "Start Time", "Processor Time", "I/O Time", "Input Time", "CPU Core", "I/O", "Input", "Status",
	})
	for _, rec := range snap.Processes {
		table.Append([]string{
			strconv.Itoa(rec.PID),
			strconv.FormatInt(rec.StartTime, 10),
			strconv.FormatInt(rec.Elapsed[CPU], 10),
			strconv.FormatInt(rec.Elapsed[IO], 10),
			strconv.FormatInt(rec.Elapsed[Input], 10),
			formatSlot(rec.Slots[CPU]),
			formatSlot(rec.Slots[IO]),
			formatSlot(rec.Slots[Input]),
			string(rec.State),
		})
	}
	table.Render()
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func newReportTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// formatQueue renders a queue as "(1) PID 4  <<  (2) PID 7", or "<Empty>".
func formatQueue(pids []int) string {
	if len(pids) == 0 {
		return "<Empty>"
	}
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = fmt.Sprintf("(%d) PID %d", i+1, pid)
	}
	return strings.Join(parts, "  <<  ")
}

func formatSlot(slot int) string {
	if slot == NoSlot {
		return "None"
	}
	return strconv.Itoa(slot)
}
