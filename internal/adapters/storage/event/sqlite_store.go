package event

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"emerald/internal/adapters/storage"
	domain "emerald/internal/domain/event"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const eventColumns = `id, event_name, event_year, event_type, description, created_at`

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM event WHERE id = ?`, id)
	return scanEvent(row)
}

// Save inserts or updates an event.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (id, event_name, event_year, event_type, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   event_name=excluded.event_name, event_year=excluded.event_year,
		   event_type=excluded.event_type, description=excluded.description,
		   created_at=excluded.created_at`,
		e.ID, e.Name, e.Year, e.Type, e.Description, e.CreatedAt.Format(timeLayout))
	return err
}

// List returns all events, year descending then newest first.
// PRE: none
// POST: Returns events in the gallery's expected fetch order
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM event
		 ORDER BY event_year DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Count returns the total number of events.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event`).Scan(&n)
	return n, err
}

// scanEvent scans a single row into an Event.
func scanEvent(row *sql.Row) (domain.Event, error) {
	var e domain.Event
	var createdAt string
	err := row.Scan(&e.ID, &e.Name, &e.Year, &e.Type, &e.Description, &createdAt)
	if err != nil {
		return domain.Event{}, err
	}
	e.CreatedAt = parseTime(createdAt, e.ID)
	return e, nil
}

// scanEvents scans multiple rows into a slice of Events.
func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Year, &e.Type, &e.Description, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt, e.ID)
		events = append(events, e)
	}
	return events, rows.Err()
}

// parseTime parses a time string, logging a warning on failure.
func parseTime(raw, eventID string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("event: failed to parse time", "event_id", eventID, "raw", raw, "error", err)
	}
	return t
}
