package event

import (
	"errors"
	"strings"
	"time"
)

// Event type constants — the fixed set offered by the admin form.
const (
	TypeFestival    = "Festival"
	TypeWedding     = "Wedding"
	TypeCorporate   = "Corporate"
	TypeBirthday    = "Birthday"
	TypeAnniversary = "Anniversary"
	TypeOther       = "Other"
)

// ValidTypes contains all valid event type values, in form display order.
var ValidTypes = []string{TypeFestival, TypeWedding, TypeCorporate, TypeBirthday, TypeAnniversary, TypeOther}

// Year bounds for admin input. The society predates digital records by
// nothing — anything before 2000 is a typo.
const (
	MinYear = 2000
	MaxYear = 2100
)

// Domain errors
var (
	ErrEmptyName   = errors.New("event name cannot be empty")
	ErrInvalidYear = errors.New("event year must be between 2000 and 2100")
	ErrInvalidType = errors.New("event type must be one of: Festival, Wedding, Corporate, Birthday, Anniversary, Other")
)

// Event is an administrator-defined occasion that media items are filed
// under. Events are created by the admin form and never updated or deleted
// in-app.
type Event struct {
	ID          string
	Name        string
	Year        int
	Type        string
	Description string
	CreatedAt   time.Time
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Year < MinYear || e.Year > MaxYear {
		return ErrInvalidYear
	}
	if !IsValidType(e.Type) {
		return ErrInvalidType
	}
	return nil
}

// IsValidType reports whether t is one of the fixed event types.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
