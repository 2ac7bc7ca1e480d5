package contact

import (
	"context"

	domain "emerald/internal/domain/contact"
)

// Store persists Contact state.
type Store interface {
	Save(ctx context.Context, value domain.Contact) error
	// List returns all contacts ordered by category then sort order.
	List(ctx context.Context) ([]domain.Contact, error)
	Count(ctx context.Context) (int, error)
}
