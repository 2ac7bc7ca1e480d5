package projections

import (
	"context"

	mediastore "emerald/internal/adapters/storage/media"
	domainevent "emerald/internal/domain/event"
	domainmedia "emerald/internal/domain/media"
)

// GetGalleryQuery carries query parameters for the gallery drill-down.
// Viewer is the acting account's ID, empty for anonymous visitors.
type GetGalleryQuery struct {
	Viewer string
}

// EventGroup is one event with its media partitioned by kind.
type EventGroup struct {
	Event  domainevent.Event
	Images []domainmedia.Media
	Videos []domainmedia.Media
}

// MediaCount returns the total media attached to the event.
func (g EventGroup) MediaCount() int {
	return len(g.Images) + len(g.Videos)
}

// YearGroup is one gallery year with its events in fetch order.
type YearGroup struct {
	Year   int
	Events []EventGroup
}

// TypeGroup is one event type with its events across all years.
type TypeGroup struct {
	Type   string
	Events []EventGroup
}

// GetGalleryResult carries the full drill-down structure: years descending,
// types in display order, plus the viewer's liked set for rendering.
type GetGalleryResult struct {
	Years    []YearGroup
	Types    []TypeGroup
	LikedIDs map[string]bool
}

// GetGalleryDeps holds dependencies for GetGallery.
type GetGalleryDeps struct {
	EventStore EventStore
	MediaStore MediaStore
	LikeStore  LikeStore
}

// QueryGetGallery builds the year → type → event → media drill-down from
// one fetch of each table. Anonymous viewers never see hidden media; that
// filter is applied store-side.
// PRE: stores are wired
// POST: every event appears exactly once in Years and exactly once in
// Types; media are partitioned by kind in upload order
func QueryGetGallery(ctx context.Context, query GetGalleryQuery, deps GetGalleryDeps) (GetGalleryResult, error) {
	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return GetGalleryResult{}, err
	}

	allMedia, err := deps.MediaStore.List(ctx, mediastore.ListFilter{
		VisibleOnly: query.Viewer == "",
	})
	if err != nil {
		return GetGalleryResult{}, err
	}

	// Partition media per event, preserving upload order.
	imagesByEvent := make(map[string][]domainmedia.Media)
	videosByEvent := make(map[string][]domainmedia.Media)
	for _, m := range allMedia {
		if m.IsImage() {
			imagesByEvent[m.EventID] = append(imagesByEvent[m.EventID], m)
		} else {
			videosByEvent[m.EventID] = append(videosByEvent[m.EventID], m)
		}
	}

	groupOf := func(e domainevent.Event) EventGroup {
		return EventGroup{
			Event:  e,
			Images: imagesByEvent[e.ID],
			Videos: videosByEvent[e.ID],
		}
	}

	// Year groups follow the store's descending-year fetch order.
	var years []YearGroup
	yearIndex := make(map[int]int)
	for _, e := range events {
		idx, ok := yearIndex[e.Year]
		if !ok {
			idx = len(years)
			yearIndex[e.Year] = idx
			years = append(years, YearGroup{Year: e.Year})
		}
		years[idx].Events = append(years[idx].Events, groupOf(e))
	}

	// Type groups appear in fixed display order, empty types omitted.
	var types []TypeGroup
	for _, typeName := range domainevent.ValidTypes {
		group := TypeGroup{Type: typeName}
		for _, e := range events {
			if e.Type == typeName {
				group.Events = append(group.Events, groupOf(e))
			}
		}
		if len(group.Events) > 0 {
			types = append(types, group)
		}
	}

	result := GetGalleryResult{
		Years:    years,
		Types:    types,
		LikedIDs: make(map[string]bool),
	}

	if query.Viewer != "" && deps.LikeStore != nil {
		likedIDs, err := deps.LikeStore.ListLikedMediaIDs(ctx, query.Viewer)
		if err != nil {
			return GetGalleryResult{}, err
		}
		for _, id := range likedIDs {
			result.LikedIDs[id] = true
		}
	}

	return result, nil
}
