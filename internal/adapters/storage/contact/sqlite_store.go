package contact

import (
	"context"

	"emerald/internal/adapters/storage"
	domain "emerald/internal/domain/contact"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const contactColumns = `id, title, name, phone, role, availability, category, is_primary, sort_order`

// Save inserts or updates a contact.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.Contact) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact (id, title, name, phone, role, availability, category, is_primary, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, name=excluded.name, phone=excluded.phone,
		   role=excluded.role, availability=excluded.availability, category=excluded.category,
		   is_primary=excluded.is_primary, sort_order=excluded.sort_order`,
		c.ID, c.Title, c.Name, c.Phone, c.Role, c.Availability, c.Category,
		boolToInt(c.Primary), c.SortOrder)
	return err
}

// List returns all contacts, management block first, each in sort order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact
		 ORDER BY category ASC, sort_order ASC, title ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		var isPrimary int
		if err := rows.Scan(&c.ID, &c.Title, &c.Name, &c.Phone, &c.Role,
			&c.Availability, &c.Category, &isPrimary, &c.SortOrder); err != nil {
			return nil, err
		}
		c.Primary = isPrimary != 0
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// Count returns the total number of contacts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact`).Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
