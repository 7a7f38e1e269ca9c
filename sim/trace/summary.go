package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions int
	Grants           map[string]int // resource → slots granted
	Waits            map[string]int // resource → wait phases spliced in
	TotalWaitTicks   int64
	MaxWait          int64
	Terminations     int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Grants: make(map[string]int),
		Waits:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTransitions = len(st.Transitions)
	for _, r := range st.Transitions {
		switch r.Kind {
		case TransitionGrant:
			summary.Grants[r.Resource]++
		case TransitionWait:
			summary.Waits[r.Resource]++
			summary.TotalWaitTicks += r.Wait
			if r.Wait > summary.MaxWait {
				summary.MaxWait = r.Wait
			}
		case TransitionTerminate:
			summary.Terminations++
		}
	}

	return summary
}
