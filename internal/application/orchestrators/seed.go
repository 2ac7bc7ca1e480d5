package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"emerald/internal/domain/account"
	"emerald/internal/domain/contact"
	"emerald/internal/domain/event"
	"emerald/internal/domain/media"

	"github.com/google/uuid"
)

// AccountStoreForSeed defines the store interface needed by SeedAdmin.
type AccountStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, a account.Account) error
	SaveAuthorizedEmail(ctx context.Context, ae account.AuthorizedEmail) error
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore AccountStoreForSeed
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Database is initialized
// POST: Admin account and its allow-list entry created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps SeedAdminDeps, adminEmail, adminPassword string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Accounts already exist, skip seeding
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     adminEmail,
		Role:      account.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := acct.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}
	if err := deps.AccountStore.SaveAuthorizedEmail(ctx, account.AuthorizedEmail{
		Email:     adminEmail,
		Role:      account.RoleAdmin,
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}

// ContactStoreForSeed defines the store interface needed by SeedContacts.
type ContactStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, c contact.Contact) error
}

// SeedContactsDeps holds dependencies for SeedContacts.
type SeedContactsDeps struct {
	ContactStore ContactStoreForSeed
}

// ExecuteSeedContacts creates the default emergency contact directory if
// none exists.
func ExecuteSeedContacts(ctx context.Context, deps SeedContactsDeps) error {
	count, err := deps.ContactStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already seeded
	}

	contacts := []contact.Contact{
		{Title: "Society Manager", Name: "Rajesh Kumar", Phone: "+91 98765 43210", Role: "General queries and escalations", Availability: "Mon-Sat, 9 AM - 6 PM", Category: contact.CategoryManagement, Primary: true, SortOrder: 1},
		{Title: "Security Desk", Phone: "+91 98765 43211", Role: "Gate and visitor management", Availability: "24x7", Category: contact.CategoryManagement, SortOrder: 2},
		{Title: "Maintenance Office", Phone: "+91 98765 43212", Role: "Plumbing, electrical, common areas", Availability: "Mon-Sat, 8 AM - 8 PM", Category: contact.CategoryManagement, SortOrder: 3},
		{Title: "Police", Phone: "100", Category: contact.CategoryService, SortOrder: 1},
		{Title: "Fire Brigade", Phone: "101", Category: contact.CategoryService, SortOrder: 2},
		{Title: "Ambulance", Phone: "108", Category: contact.CategoryService, SortOrder: 3},
		{Title: "Electricity Board", Phone: "1912", Category: contact.CategoryService, SortOrder: 4},
	}
	for _, c := range contacts {
		c.ID = uuid.New().String()
		if err := c.Validate(); err != nil {
			return err
		}
		if err := deps.ContactStore.Save(ctx, c); err != nil {
			return err
		}
	}

	slog.Info("contacts_seeded", "count", len(contacts))
	return nil
}

// EventStoreForSeed defines the store interface needed by SeedSynthetic.
type EventStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, e event.Event) error
}

// MediaStoreForSeed defines the store interface needed by SeedSynthetic.
type MediaStoreForSeed interface {
	Save(ctx context.Context, m media.Media) error
}

// SeedSyntheticDeps holds dependencies for SeedSynthetic.
type SeedSyntheticDeps struct {
	EventStore EventStoreForSeed
	MediaStore MediaStoreForSeed
}

// ExecuteSeedSynthetic populates sample events and media for development.
// Runs only when the event table is empty; media URLs point at a public
// placeholder image service.
func ExecuteSeedSynthetic(ctx context.Context, deps SeedSyntheticDeps) error {
	count, err := deps.EventStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Already seeded
	}

	events := []event.Event{
		{Name: "Diwali Celebration", Year: 2025, Type: event.TypeFestival, Description: "Lamp lighting, rangoli competition, and the community dinner at the clubhouse."},
		{Name: "Holi", Year: 2025, Type: event.TypeFestival, Description: "Colours on the central lawn followed by lunch."},
		{Name: "Annual General Meeting", Year: 2024, Type: event.TypeCorporate, Description: "Yearly society review and committee elections."},
		{Name: "Ganesh Chaturthi", Year: 2024, Type: event.TypeFestival, Description: "Five-day celebration at the society pandal."},
	}

	now := time.Now()
	for i, e := range events {
		e.ID = uuid.New().String()
		e.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		if err := e.Validate(); err != nil {
			return err
		}
		if err := deps.EventStore.Save(ctx, e); err != nil {
			return err
		}

		for j := 0; j < 3; j++ {
			m := media.Media{
				ID:          uuid.New().String(),
				EventID:     e.ID,
				Name:        fmt.Sprintf("photo-%d.jpg", j+1),
				URL:         fmt.Sprintf("https://picsum.photos/seed/%s-%d/800/600", e.ID[:8], j),
				StoragePath: fmt.Sprintf("%s/photo-%d.jpg", e.ID, j+1),
				Kind:        media.KindImage,
				Visible:     true,
				CreatedAt:   e.CreatedAt.Add(time.Duration(j) * time.Second),
			}
			if err := m.Validate(); err != nil {
				return err
			}
			if err := deps.MediaStore.Save(ctx, m); err != nil {
				return err
			}
		}
	}

	slog.Info("synthetic_seeded", "events", len(events))
	return nil
}
