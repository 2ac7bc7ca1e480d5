package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	mediastore "emerald/internal/adapters/storage/media"
)

// LikeStoreForToggle defines the store interface needed by ToggleLike.
type LikeStoreForToggle interface {
	ToggleLike(ctx context.Context, mediaID, accountID string) (mediastore.ToggleResult, error)
}

// ToggleLikeInput carries input for the like-toggle orchestrator.
type ToggleLikeInput struct {
	MediaID   string
	AccountID string // empty when the viewer has no session
}

// ToggleLikeDeps holds dependencies for ToggleLike.
type ToggleLikeDeps struct {
	LikeStore LikeStoreForToggle
}

var (
	ErrLoginRequired = errors.New("you must be logged in to like photos")
	ErrMissingMedia  = errors.New("media id is required")
)

// ExecuteToggleLike flips the caller's like on a media item. The flip and
// the counter update happen in one store transaction, so rapid repeated
// toggles from any number of sessions keep the counter equal to the
// number of like rows.
// PRE: AccountID belongs to an authenticated session
// POST: Like state flipped atomically; returns the post-toggle state
func ExecuteToggleLike(ctx context.Context, input ToggleLikeInput, deps ToggleLikeDeps) (mediastore.ToggleResult, error) {
	if input.AccountID == "" {
		return mediastore.ToggleResult{}, ErrLoginRequired
	}
	if input.MediaID == "" {
		return mediastore.ToggleResult{}, ErrMissingMedia
	}

	res, err := deps.LikeStore.ToggleLike(ctx, input.MediaID, input.AccountID)
	if err != nil {
		return mediastore.ToggleResult{}, err
	}

	slog.Info("media_like_toggled", "media_id", input.MediaID, "account_id", input.AccountID,
		"liked", res.Liked, "likes_count", res.LikesCount)
	return res, nil
}
