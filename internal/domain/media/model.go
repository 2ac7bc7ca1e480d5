package media

import (
	"errors"
	"strings"
	"time"
)

// Media kind constants.
const (
	KindImage = "image"
	KindVideo = "video"
)

// Domain errors
var (
	ErrEmptyEventID = errors.New("media must reference an event")
	ErrEmptyName    = errors.New("media name cannot be empty")
	ErrEmptyURL     = errors.New("media URL cannot be empty")
	ErrInvalidKind  = errors.New("media kind must be image or video")
)

// Media is one uploaded image or video file associated with exactly one
// event. LikesCount is a denormalized counter kept equal to the number of
// Like rows referencing the media (enforced by the transactional toggle).
type Media struct {
	ID          string
	EventID     string
	Name        string // original file name, shown as the display name
	URL         string // public URL in object storage
	StoragePath string // bucket-relative key
	Kind        string // image or video
	Caption     string
	LikesCount  int
	Visible     bool
	CreatedAt   time.Time
}

// Like records one account's expressed preference for one media item.
// Uniqueness of the (MediaID, AccountID) pair is enforced by the store.
type Like struct {
	MediaID   string
	AccountID string
	CreatedAt time.Time
}

// Validate checks if the Media has valid data.
// PRE: Media struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Media) Validate() error {
	if strings.TrimSpace(m.EventID) == "" {
		return ErrEmptyEventID
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.URL) == "" {
		return ErrEmptyURL
	}
	if m.Kind != KindImage && m.Kind != KindVideo {
		return ErrInvalidKind
	}
	return nil
}

// IsImage reports whether the media item is an image.
// INVARIANT: Media fields are not mutated
func (m *Media) IsImage() bool {
	return m.Kind == KindImage
}
