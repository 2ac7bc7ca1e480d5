package media

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"emerald/internal/adapters/storage"
	domain "emerald/internal/domain/media"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store and LikeStore using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const mediaColumns = `id, event_id, media_name, media_url, storage_path, media_type,
		caption, likes_count, is_visible, created_at`

// GetByID retrieves a media item by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Media, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+mediaColumns+` FROM event_media WHERE id = ?`, id)
	return scanMedia(row)
}

// Save inserts or updates a media item.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Media) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_media (id, event_id, media_name, media_url, storage_path,
		   media_type, caption, likes_count, is_visible, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   event_id=excluded.event_id, media_name=excluded.media_name,
		   media_url=excluded.media_url, storage_path=excluded.storage_path,
		   media_type=excluded.media_type, caption=excluded.caption,
		   likes_count=excluded.likes_count, is_visible=excluded.is_visible,
		   created_at=excluded.created_at`,
		m.ID, m.EventID, m.Name, m.URL, m.StoragePath,
		m.Kind, nullableString(m.Caption), m.LikesCount, boolToInt(m.Visible),
		m.CreatedAt.Format(timeLayout))
	return err
}

// List returns media matching the filter, oldest first within an event so
// upload order is preserved in the gallery.
// PRE: filter has valid parameters
// POST: Returns matching media; VisibleOnly filters store-side, never in the caller
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM event_media WHERE 1=1`
	args := []any{}

	if filter.EventID != "" {
		query += ` AND event_id = ?`
		args = append(args, filter.EventID)
	}
	if filter.Kind != "" {
		query += ` AND media_type = ?`
		args = append(args, filter.Kind)
	}
	if filter.VisibleOnly {
		query += ` AND is_visible = 1`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMediaRows(rows)
}

// Count returns the total number of media items.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_media`).Scan(&n)
	return n, err
}

// ToggleLike flips the (media, account) like state in a single transaction.
// The like row and the likes_count column move together, so the counter
// always equals the number of like rows even under concurrent toggles.
// PRE: mediaID and accountID are non-empty
// POST: like row inserted or deleted, counter adjusted (floored at 0)
func (s *SQLiteStore) ToggleLike(ctx context.Context, mediaID, accountID string) (ToggleResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ToggleResult{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM media_like WHERE media_id = ? AND account_id = ?`,
		mediaID, accountID)
	if err != nil {
		return ToggleResult{}, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return ToggleResult{}, err
	}

	var liked bool
	if removed > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE event_media SET likes_count = MAX(likes_count - 1, 0) WHERE id = ?`,
			mediaID)
	} else {
		liked = true
		_, err = tx.ExecContext(ctx,
			`INSERT INTO media_like (media_id, account_id, created_at) VALUES (?, ?, ?)`,
			mediaID, accountID, time.Now().UTC().Format(timeLayout))
		if err == nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE event_media SET likes_count = likes_count + 1 WHERE id = ?`,
				mediaID)
		}
	}
	if err != nil {
		return ToggleResult{}, err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT likes_count FROM event_media WHERE id = ?`, mediaID).Scan(&count); err != nil {
		return ToggleResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Liked: liked, LikesCount: count}, nil
}

// ListLikedMediaIDs returns the IDs of media the account has liked.
// PRE: accountID is non-empty
// POST: Returns media IDs in like order
func (s *SQLiteStore) ListLikedMediaIDs(ctx context.Context, accountID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT media_id FROM media_like WHERE account_id = ? ORDER BY created_at ASC`,
		accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountForMedia returns the number of like rows referencing a media item.
func (s *SQLiteStore) CountForMedia(ctx context.Context, mediaID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media_like WHERE media_id = ?`, mediaID).Scan(&n)
	return n, err
}

// scannedRow holds the raw scanned values from a media row before conversion.
type scannedRow struct {
	caption   sql.NullString
	isVisible int
	createdAt string
}

// scanMedia scans a single row into a Media.
func scanMedia(row *sql.Row) (domain.Media, error) {
	var m domain.Media
	var s scannedRow
	err := row.Scan(&m.ID, &m.EventID, &m.Name, &m.URL, &m.StoragePath, &m.Kind,
		&s.caption, &m.LikesCount, &s.isVisible, &s.createdAt)
	if err != nil {
		return domain.Media{}, err
	}
	applyScanned(&m, &s)
	return m, nil
}

// scanMediaRows scans multiple rows into a slice of Media.
func scanMediaRows(rows *sql.Rows) ([]domain.Media, error) {
	var items []domain.Media
	for rows.Next() {
		var m domain.Media
		var s scannedRow
		err := rows.Scan(&m.ID, &m.EventID, &m.Name, &m.URL, &m.StoragePath, &m.Kind,
			&s.caption, &m.LikesCount, &s.isVisible, &s.createdAt)
		if err != nil {
			return nil, err
		}
		applyScanned(&m, &s)
		items = append(items, m)
	}
	return items, rows.Err()
}

// applyScanned converts raw scanned values into the Media domain fields.
func applyScanned(m *domain.Media, s *scannedRow) {
	if s.caption.Valid {
		m.Caption = s.caption.String
	}
	m.Visible = s.isVisible != 0
	t, err := time.Parse(timeLayout, s.createdAt)
	if err != nil {
		slog.Warn("media: failed to parse time", "media_id", m.ID, "raw", s.createdAt, "error", err)
	}
	m.CreatedAt = t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
