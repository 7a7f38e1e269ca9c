// Package trace provides transition-trace recording for scheduling analysis.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// TransitionKind names the scheduling decision a record captures.
type TransitionKind string

const (
	// TransitionGrant: a slot was granted and a busy phase began.
	TransitionGrant TransitionKind = "grant"
	// TransitionWait: a wait phase was spliced in and the process was queued.
	TransitionWait TransitionKind = "wait"
	// TransitionRelease: a busy phase ended and its slot was returned.
	TransitionRelease TransitionKind = "release"
	// TransitionTerminate: the process reached the end of its chain.
	TransitionTerminate TransitionKind = "terminate"
)

// TransitionRecord captures a single process state transition.
type TransitionRecord struct {
	RunID    string
	Clock    int64
	PID      int
	Kind     TransitionKind
	Resource string // resource kind, empty for terminations
	Slot     int    // slot granted or released, -1 otherwise
	Wait     int64  // duration of the spliced wait phase, 0 otherwise
}
