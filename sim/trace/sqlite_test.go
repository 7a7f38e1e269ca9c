package trace

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteWriter_PersistsTransitions(t *testing.T) {
	// GIVEN a writer backed by a file in a temporary directory
	path := filepath.Join(t.TempDir(), "trace.sqlite3")
	w := NewSQLiteWriter(path)
	require.NoError(t, w.Init())

	st := NewSimulationTrace(TraceConfig{Level: TraceLevelTransitions, RunID: "run-42"})
	st.AddSink(w)

	// WHEN transitions are recorded and the writer is closed
	st.RecordTransition(TransitionRecord{Clock: 0, PID: 1, Kind: TransitionGrant, Resource: "CPU", Slot: 0})
	st.RecordTransition(TransitionRecord{Clock: 0, PID: 2, Kind: TransitionWait, Resource: "CPU", Slot: -1, Wait: 7})
	st.RecordTransition(TransitionRecord{Clock: 7, PID: 1, Kind: TransitionTerminate, Slot: -1})
	require.NoError(t, w.Close())

	// THEN every record is stored with its run id
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM transitions WHERE run_id = ?", "run-42").Scan(&count))
	assert.Equal(t, 3, count)

	var wait int64
	var resource string
	require.NoError(t, db.QueryRow("SELECT wait, resource FROM transitions WHERE kind = ?", "wait").Scan(&wait, &resource))
	assert.Equal(t, int64(7), wait)
	assert.Equal(t, "CPU", resource)
}

func TestSQLiteWriter_FlushesWhenBatchIsFull(t *testing.T) {
	// GIVEN a writer with a batch size of two
	path := filepath.Join(t.TempDir(), "batch.sqlite3")
	w := NewSQLiteWriter(path)
	w.batchSize = 2
	require.NoError(t, w.Init())
	defer w.Close()

	// WHEN three records are written
	for pid := 1; pid <= 3; pid++ {
		w.Write(TransitionRecord{RunID: "r", PID: pid, Kind: TransitionRelease})
	}

	// THEN the first two are already stored and one is pending
	var count int
	require.NoError(t, w.QueryRow("SELECT COUNT(*) FROM transitions").Scan(&count))
	assert.Equal(t, 2, count)
	assert.Len(t, w.pending, 1)
}

func TestSQLiteWriter_DefaultPath(t *testing.T) {
	w := NewSQLiteWriter("")
	assert.True(t, strings.HasPrefix(w.Path(), "procsim_trace_"))
	assert.True(t, strings.HasSuffix(w.Path(), ".sqlite3"))

	// flushing or closing before Init is a no-op
	w.Write(TransitionRecord{Kind: TransitionGrant})
	assert.NotPanics(t, w.Flush)
	assert.NoError(t, w.Close())
}
