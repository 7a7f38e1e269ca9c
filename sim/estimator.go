package sim

import "github.com/sirupsen/logrus"

// estimateWait sizes the wait phase for self queuing on kind at tick now.
//
// Every other live entry is projected to now. An entry holding a slot of
// the resource frees it when its busy phase ends; an entry already waiting
// for it frees it once its wait and the busy phase after it complete. The
// estimate is the smallest such time that lies beyond the longest remaining
// wait of an existing waiter, so a new waiter never claims a slot an
// earlier waiter is already counting on.
//
// A busy phase only counts once its slot is actually held past now. Entries
// not yet resolved this tick may be about to start the phase without a
// slot, or about to release the slot at a boundary and queue again for the
// next phase of the same kind. Entries whose grant was deferred this tick
// hold nothing either.
//
// ok is false when no entry will free the resource.
func (sim *Simulator) estimateWait(self *TimelineEntry, kind ResourceKind, now int64) (wait int64, ok bool) {
	var candidates []int64
	var longestQueued int64

	for _, e := range sim.Entries {
		if e == self || now >= e.TotalDuration || sim.deferred[e] {
			continue
		}
		idx, active := e.Chain.ActiveAt(now)
		if !active {
			continue
		}
		phase := e.Chain[idx]
		if res, has := phase.Kind.Resource(); !has || res != kind {
			continue
		}

		remaining := e.Chain.EndOf(idx) - now
		if phase.Kind.IsBusy() {
			if sim.holdsPastNow(e, kind, now) {
				candidates = append(candidates, remaining)
			}
			continue
		}

		longestQueued = max(longestQueued, remaining)
		var usage int64
		if idx+1 < len(e.Chain) {
			usage = e.Chain[idx+1].Duration
		}
		candidates = append(candidates, remaining+usage)
	}

	for _, c := range candidates {
		if c > longestQueued && (!ok || c < wait) {
			wait, ok = c, true
		}
	}
	logrus.Debugf("[tick %07d] %s wait estimate for process %d: candidates=%v longestQueued=%d -> %d (ok=%v)",
		now, kind, self.PID, candidates, longestQueued, wait, ok)
	return wait, ok
}

// holdsPastNow reports whether e occupies a slot of kind that it keeps
// beyond tick now.
func (sim *Simulator) holdsPastNow(e *TimelineEntry, kind ResourceKind, now int64) bool {
	if e.NextUpdateTime <= now {
		return false
	}
	rec := sim.Directory.Get(e.PID)
	return rec != nil && rec.Slot(kind) != NoSlot
}
