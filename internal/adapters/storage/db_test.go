package storage

import (
	"database/sql"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after InitDB.
var expectedTables = []string{
	"account",
	"authorized_email",
	"contact",
	"event",
	"event_media",
	"media_like",
}

// TestInitDB_Fresh verifies the schema applies cleanly to an empty database.
func TestInitDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed on fresh db: %v", err)
	}

	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Errorf("got %d tables, want %d\ngot:  %v\nwant: %v", len(tables), len(expectedTables), tables, expectedTables)
	}
	for i, want := range expectedTables {
		if i >= len(tables) {
			t.Errorf("missing table: %s", want)
			continue
		}
		if tables[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, tables[i], want)
		}
	}
}

// TestInitDB_Idempotent verifies that running InitDB twice produces no errors
// and existing data survives.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}

	_, err := db.Exec(`INSERT INTO event (id, event_name, event_year, event_type, description, created_at) VALUES ('e1', 'Holi Celebration', 2024, 'Festival', '', '2024-03-25T10:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to insert test event: %v", err)
	}

	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}

	var name string
	if err := db.QueryRow("SELECT event_name FROM event WHERE id = 'e1'").Scan(&name); err != nil {
		t.Fatalf("event data lost after second InitDB: %v", err)
	}
	if name != "Holi Celebration" {
		t.Errorf("event_name = %q, want %q", name, "Holi Celebration")
	}
}

// TestInitDB_LikeUniqueness verifies the (media_id, account_id) primary key
// rejects duplicate like rows.
func TestInitDB_LikeUniqueness(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatalf("exec %q failed: %v", q, err)
		}
	}
	mustExec(`INSERT INTO account (id, email, role, created_at) VALUES ('a1', 'r@emerald.test', 'resident', '2026-01-01T00:00:00Z')`)
	mustExec(`INSERT INTO event (id, event_name, event_year, event_type, description, created_at) VALUES ('e1', 'Diwali', 2025, 'Festival', '', '2026-01-01T00:00:00Z')`)
	mustExec(`INSERT INTO event_media (id, event_id, media_name, media_url, storage_path, media_type, created_at) VALUES ('m1', 'e1', 'p.jpg', 'https://x/p.jpg', 'e1/p.jpg', 'image', '2026-01-01T00:00:00Z')`)
	mustExec(`INSERT INTO media_like (media_id, account_id, created_at) VALUES ('m1', 'a1', '2026-01-01T00:00:00Z')`)

	_, err := db.Exec(`INSERT INTO media_like (media_id, account_id, created_at) VALUES ('m1', 'a1', '2026-01-02T00:00:00Z')`)
	if err == nil {
		t.Error("expected duplicate like insert to fail, got nil")
	}
}
