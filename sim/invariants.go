package sim

import "fmt"

// CheckInvariants verifies, at the end of a tick, that for every resource
// kind the occupied slot count stays within capacity and equals both the
// number of directory records holding a slot and the number of entries in
// a busy phase; and that no process is queued twice or queued for a kind
// while holding a slot.
func (sim *Simulator) CheckInvariants() error {
	now := sim.Clock
	for _, kind := range ResourceKinds {
		pool := sim.Pools.Pool(kind)
		if pool.Occupied() > pool.Capacity() {
			return fmt.Errorf("%s: %d slots occupied exceeds capacity %d", kind, pool.Occupied(), pool.Capacity())
		}

		holders := 0
		for _, rec := range sim.Directory.Records() {
			if rec.Slot(kind) != NoSlot {
				holders++
			}
		}
		if holders != pool.Occupied() {
			return fmt.Errorf("%s: %d processes hold a slot but %d slots are occupied", kind, holders, pool.Occupied())
		}

		busy := 0
		for _, e := range sim.Entries {
			if now >= e.StartTime() && e.PhaseAt(now) == BusyPhase(kind) {
				busy++
			}
		}
		if busy != pool.Occupied() {
			return fmt.Errorf("%s: %d processes are busy but %d slots are occupied", kind, busy, pool.Occupied())
		}
	}

	queuedFor := make(map[int]ResourceKind)
	for _, kind := range ResourceKinds {
		for _, pid := range sim.WaitQs[kind].Items() {
			if other, dup := queuedFor[pid]; dup {
				return fmt.Errorf("process %d is queued for both %s and %s", pid, other, kind)
			}
			queuedFor[pid] = kind
			if rec := sim.Directory.Get(pid); rec != nil && rec.Slot(kind) != NoSlot {
				return fmt.Errorf("process %d is queued for %s while holding slot %d", pid, kind, rec.Slot(kind))
			}
		}
	}
	return nil
}
