package account

import (
	"context"

	domain "emerald/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Count(ctx context.Context) (int, error)
}

// AuthorizedEmailStore persists the signup allow-list. Signup checks this
// table before creating an account; existing accounts sign in without it.
type AuthorizedEmailStore interface {
	GetAuthorizedEmail(ctx context.Context, email string) (domain.AuthorizedEmail, error)
	SaveAuthorizedEmail(ctx context.Context, value domain.AuthorizedEmail) error
}
