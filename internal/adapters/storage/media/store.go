package media

import (
	"context"

	domain "emerald/internal/domain/media"
)

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	EventID     string
	Kind        string
	VisibleOnly bool // anonymous viewers only see visible media
}

// ToggleResult reports the outcome of a like toggle.
type ToggleResult struct {
	Liked      bool // state after the toggle
	LikesCount int  // counter after the toggle
}

// Store persists Media state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Media, error)
	Save(ctx context.Context, value domain.Media) error
	List(ctx context.Context, filter ListFilter) ([]domain.Media, error)
	Count(ctx context.Context) (int, error)
}

// LikeStore persists per-account media likes alongside the denormalized
// counter. ToggleLike is atomic: the like row and the counter move
// together or not at all.
type LikeStore interface {
	ToggleLike(ctx context.Context, mediaID, accountID string) (ToggleResult, error)
	ListLikedMediaIDs(ctx context.Context, accountID string) ([]string, error)
	CountForMedia(ctx context.Context, mediaID string) (int, error)
}
