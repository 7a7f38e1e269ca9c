package trace

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

const createTransitionTableSQL = `CREATE TABLE IF NOT EXISTS transitions (
	run_id   TEXT,
	clock    INTEGER,
	pid      INTEGER,
	kind     TEXT,
	resource TEXT,
	slot     INTEGER,
	wait     INTEGER
);`

const insertTransitionSQL = `INSERT INTO transitions
	(run_id, clock, pid, kind, resource, slot, wait) VALUES (?, ?, ?, ?, ?, ?, ?)`

// SQLiteWriter persists transition records to a SQLite database in batches.
type SQLiteWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	pending   []TransitionRecord
	batchSize int
}

// NewSQLiteWriter creates a writer for path. An empty path picks a unique
// file name in the working directory. Buffered records are flushed at exit.
func NewSQLiteWriter(path string) *SQLiteWriter {
	if path == "" {
		path = "procsim_trace_" + xid.New().String() + ".sqlite3"
	}
	w := &SQLiteWriter{
		dbName:    path,
		batchSize: 10000,
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// Path returns the database file the writer records into.
func (w *SQLiteWriter) Path() string {
	return w.dbName
}

// Init opens the database and prepares the transitions table.
func (w *SQLiteWriter) Init() error {
	db, err := sql.Open("sqlite3", w.dbName)
	if err != nil {
		return fmt.Errorf("opening trace database %s: %w", w.dbName, err)
	}
	w.DB = db

	if _, err := w.Exec(createTransitionTableSQL); err != nil {
		return fmt.Errorf("creating transitions table: %w", err)
	}
	w.statement, err = w.Prepare(insertTransitionSQL)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Recording transitions to: %s\n", w.dbName)
	return nil
}

// Write buffers a record, flushing once the batch is full.
func (w *SQLiteWriter) Write(record TransitionRecord) {
	w.pending = append(w.pending, record)
	if len(w.pending) >= w.batchSize {
		w.Flush()
	}
}

// Flush writes all buffered records in one transaction.
func (w *SQLiteWriter) Flush() {
	if len(w.pending) == 0 || w.DB == nil {
		return
	}

	tx, err := w.Begin()
	if err != nil {
		panic(fmt.Errorf("starting transaction: %w", err))
	}
	stmt := tx.Stmt(w.statement)
	for _, r := range w.pending {
		if _, err := stmt.Exec(r.RunID, r.Clock, r.PID, string(r.Kind), r.Resource, r.Slot, r.Wait); err != nil {
			_ = tx.Rollback()
			panic(fmt.Errorf("inserting transition %+v: %w", r, err))
		}
	}
	if err := tx.Commit(); err != nil {
		panic(fmt.Errorf("committing transitions: %w", err))
	}

	w.pending = nil
}

// Close flushes pending records and closes the database.
func (w *SQLiteWriter) Close() error {
	if w.DB == nil {
		return nil
	}
	w.Flush()
	if w.statement != nil {
		_ = w.statement.Close()
	}
	err := w.DB.Close()
	w.DB = nil
	return err
}
