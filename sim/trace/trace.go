package trace

import "github.com/rs/xid"

// TraceLevel controls the verbosity of transition tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransitions captures every grant, wait, release and termination.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	RunID string // identifies the run in persisted records; generated when empty
}

// SimulationTrace collects transition records during a simulation.
type SimulationTrace struct {
	Config      TraceConfig
	Transitions []TransitionRecord
	sinks       []Sink
}

// Sink receives every record as it is appended.
type Sink interface {
	Write(record TransitionRecord)
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	if config.RunID == "" {
		config.RunID = xid.New().String()
	}
	return &SimulationTrace{
		Config:      config,
		Transitions: make([]TransitionRecord, 0),
	}
}

// AddSink forwards every subsequent record to s.
func (st *SimulationTrace) AddSink(s Sink) {
	st.sinks = append(st.sinks, s)
}

// Enabled reports whether records should be collected.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelTransitions
}

// RecordTransition stamps the run id on record and appends it.
func (st *SimulationTrace) RecordTransition(record TransitionRecord) {
	if !st.Enabled() {
		return
	}
	record.RunID = st.Config.RunID
	st.Transitions = append(st.Transitions, record)
	for _, s := range st.sinks {
		s.Write(record)
	}
}
