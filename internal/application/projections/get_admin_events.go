package projections

import (
	"context"

	"emerald/internal/application/listutil"
	mediastore "emerald/internal/adapters/storage/media"
	domainevent "emerald/internal/domain/event"
)

// GetAdminEventsQuery carries pagination for the admin event list.
type GetAdminEventsQuery struct {
	Page listutil.PageParams
}

// AdminEventRow is one event with its media count for the admin table.
type AdminEventRow struct {
	Event      domainevent.Event
	MediaCount int
}

// GetAdminEventsResult carries one page of events.
type GetAdminEventsResult struct {
	Rows     []AdminEventRow
	PageInfo listutil.PageInfo
}

// GetAdminEventsDeps holds dependencies for GetAdminEvents.
type GetAdminEventsDeps struct {
	EventStore EventStore
	MediaStore MediaStore
}

// QueryGetAdminEvents returns a page of events, newest first, each with
// its media count. Hidden media are counted too — the admin sees
// everything.
func QueryGetAdminEvents(ctx context.Context, query GetAdminEventsQuery, deps GetAdminEventsDeps) (GetAdminEventsResult, error) {
	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return GetAdminEventsResult{}, err
	}

	allMedia, err := deps.MediaStore.List(ctx, mediastore.ListFilter{})
	if err != nil {
		return GetAdminEventsResult{}, err
	}
	countByEvent := make(map[string]int)
	for _, m := range allMedia {
		countByEvent[m.EventID]++
	}

	info := listutil.NewPageInfo(query.Page.Page, query.Page.PerPage, len(events))
	start := info.Offset()
	end := start + info.PerPage
	if start > len(events) {
		start = len(events)
	}
	if end > len(events) {
		end = len(events)
	}

	rows := make([]AdminEventRow, 0, end-start)
	for _, e := range events[start:end] {
		rows = append(rows, AdminEventRow{Event: e, MediaCount: countByEvent[e.ID]})
	}

	return GetAdminEventsResult{Rows: rows, PageInfo: info}, nil
}
