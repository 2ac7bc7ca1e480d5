package projections

import (
	"context"

	domainevent "emerald/internal/domain/event"
)

// GetHomeResult carries the home page counters and recent events.
type GetHomeResult struct {
	EventCount   int
	MediaCount   int
	RecentEvents []domainevent.Event
}

// GetHomeDeps holds dependencies for GetHome.
type GetHomeDeps struct {
	EventStore EventStore
	MediaStore MediaStore
}

// recentEventLimit caps the home page event strip.
const recentEventLimit = 3

// QueryGetHome builds the home page summary.
func QueryGetHome(ctx context.Context, deps GetHomeDeps) (GetHomeResult, error) {
	eventCount, err := deps.EventStore.Count(ctx)
	if err != nil {
		return GetHomeResult{}, err
	}
	mediaCount, err := deps.MediaStore.Count(ctx)
	if err != nil {
		return GetHomeResult{}, err
	}

	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return GetHomeResult{}, err
	}
	if len(events) > recentEventLimit {
		events = events[:recentEventLimit]
	}

	return GetHomeResult{
		EventCount:   eventCount,
		MediaCount:   mediaCount,
		RecentEvents: events,
	}, nil
}
