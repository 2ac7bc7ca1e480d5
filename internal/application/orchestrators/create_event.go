package orchestrators

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"emerald/internal/domain/event"

	"github.com/google/uuid"
)

// EventStoreForCreate defines the store interface needed by CreateEvent.
type EventStoreForCreate interface {
	Save(ctx context.Context, e event.Event) error
}

// CreateEventInput carries input for the create-event orchestrator.
// Year arrives as text from the admin form and is parsed here.
type CreateEventInput struct {
	Name        string
	Year        string
	Type        string
	Description string
}

// CreateEventDeps holds dependencies for CreateEvent.
type CreateEventDeps struct {
	EventStore EventStoreForCreate
}

// ExecuteCreateEvent validates and persists a new event.
// PRE: input fields come straight from the admin form
// POST: Event row created; returns the new event ID
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (string, error) {
	year, err := strconv.Atoi(strings.TrimSpace(input.Year))
	if err != nil {
		return "", event.ErrInvalidYear
	}

	e := event.Event{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(input.Name),
		Year:        year,
		Type:        input.Type,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   time.Now(),
	}
	if err := e.Validate(); err != nil {
		return "", err
	}

	if err := deps.EventStore.Save(ctx, e); err != nil {
		return "", err
	}

	slog.Info("event_created", "event_id", e.ID, "name", e.Name, "year", e.Year, "type", e.Type)
	return e.ID, nil
}
