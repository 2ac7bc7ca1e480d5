package event

import (
	"context"

	domain "emerald/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	// List returns all events ordered by year descending, newest first
	// within a year. The gallery relies on this fetch order for its
	// year grouping.
	List(ctx context.Context) ([]domain.Event, error)
	Count(ctx context.Context) (int, error)
}
