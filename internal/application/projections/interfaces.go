package projections

import (
	"context"

	mediastore "emerald/internal/adapters/storage/media"
	domaincontact "emerald/internal/domain/contact"
	domainevent "emerald/internal/domain/event"
	domainmedia "emerald/internal/domain/media"
)

// EventStore is the event read interface used by projections.
type EventStore interface {
	List(ctx context.Context) ([]domainevent.Event, error)
	Count(ctx context.Context) (int, error)
}

// MediaStore is the media read interface used by projections.
type MediaStore interface {
	List(ctx context.Context, filter mediastore.ListFilter) ([]domainmedia.Media, error)
	Count(ctx context.Context) (int, error)
}

// LikeStore is the like read interface used by projections.
type LikeStore interface {
	ListLikedMediaIDs(ctx context.Context, accountID string) ([]string, error)
}

// ContactStore is the contact read interface used by projections.
type ContactStore interface {
	List(ctx context.Context) ([]domaincontact.Contact, error)
}
