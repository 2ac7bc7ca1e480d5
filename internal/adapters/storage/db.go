package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS authorized_email (
		email TEXT PRIMARY KEY,
		role TEXT NOT NULL DEFAULT 'resident',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event (
		id TEXT PRIMARY KEY,
		event_name TEXT NOT NULL,
		event_year INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_media (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		media_name TEXT NOT NULL,
		media_url TEXT NOT NULL,
		storage_path TEXT NOT NULL,
		media_type TEXT NOT NULL,
		caption TEXT,
		likes_count INTEGER NOT NULL DEFAULT 0,
		is_visible INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		FOREIGN KEY (event_id) REFERENCES event(id)
	);

	CREATE TABLE IF NOT EXISTS media_like (
		media_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (media_id, account_id),
		FOREIGN KEY (media_id) REFERENCES event_media(id),
		FOREIGN KEY (account_id) REFERENCES account(id)
	);

	CREATE TABLE IF NOT EXISTS contact (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		availability TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		is_primary INTEGER NOT NULL DEFAULT 0,
		sort_order INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_event_media_event ON event_media(event_id);
	CREATE INDEX IF NOT EXISTS idx_media_like_account ON media_like(account_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
