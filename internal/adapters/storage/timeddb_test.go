package storage

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"emerald/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.Exec("CREATE TABLE sample (id TEXT PRIMARY KEY, val TEXT)")
	return db
}

// TestTimedDB_RecordsTimings verifies each wrapped call records to the collector.
func TestTimedDB_RecordsTimings(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO sample (id, val) VALUES (?, ?)", "1", "a"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id FROM sample")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM sample WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "a" {
		t.Errorf("val = %q, want %q", val, "a")
	}

	if got := collector.TotalRecorded(); got != 3 {
		t.Errorf("TotalRecorded = %d, want 3", got)
	}
}

// TestTimedDB_NilCollector verifies the wrapper works without a collector attached.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO sample (id, val) VALUES (?, ?)", "1", "a"); err != nil {
		t.Fatalf("ExecContext with nil collector: %v", err)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged and
// timing is still recorded. Swallowing errors here would corrupt data.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO missing_table VALUES (?)", 1); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	if got := collector.TotalRecorded(); got != 1 {
		t.Errorf("TotalRecorded = %d, want 1 (must record even on error)", got)
	}

	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM sample WHERE id = ?", "nope").Scan(&val)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestTimedDB_BeginTx verifies transactions work through the wrapper.
func TestTimedDB_BeginTx(t *testing.T) {
	db := openTimedTestDB(t)
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(db, collector)

	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.Exec("INSERT INTO sample (id, val) VALUES (?, ?)", "tx1", "v"); err != nil {
		t.Fatalf("tx.Exec: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("tx.Commit: %v", err)
	}

	if collector.TotalRecorded() < 1 {
		t.Errorf("TotalRecorded = %d, want >= 1", collector.TotalRecorded())
	}
}

// TestTimedDB_RawDB verifies RawDB returns the original *sql.DB.
func TestTimedDB_RawDB(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil)
	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}
