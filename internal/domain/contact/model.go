package contact

import (
	"errors"
	"strings"
)

// Category constants. Management contacts belong to the society; service
// contacts are public emergency numbers (police, fire, ambulance).
const (
	CategoryManagement = "management"
	CategoryService    = "service"
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("contact title cannot be empty")
	ErrEmptyPhone      = errors.New("contact phone cannot be empty")
	ErrInvalidCategory = errors.New("contact category must be management or service")
)

// Contact is one entry on the emergency contacts page.
type Contact struct {
	ID           string
	Title        string // e.g. "Society Manager", "Police"
	Name         string // person or desk name; empty for service numbers
	Phone        string
	Role         string // e.g. "Primary Contact", "Law enforcement emergency"
	Availability string // e.g. "24/7 Emergency Support"
	Category     string
	Primary      bool // highlighted as the primary emergency contact
	SortOrder    int
}

// Validate checks if the Contact has valid data.
// PRE: Contact struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrEmptyPhone
	}
	if c.Category != CategoryManagement && c.Category != CategoryService {
		return ErrInvalidCategory
	}
	return nil
}

// TelURI returns the tel: link for the contact number, with spaces and
// dashes stripped so dialers accept it.
// INVARIANT: Contact fields are not mutated
func (c *Contact) TelURI() string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, c.Phone)
	return "tel:" + cleaned
}
