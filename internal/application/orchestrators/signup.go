package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"emerald/internal/adapters/email"
	"emerald/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForSignup defines the store interface needed by Signup.
type AccountStoreForSignup interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	GetAuthorizedEmail(ctx context.Context, email string) (account.AuthorizedEmail, error)
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Email    string
	Password string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	AccountStore AccountStoreForSignup
	EmailSender  email.Sender // optional; skipped when nil
}

var (
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	ErrEmailNotAuthorized = errors.New("this email is not authorized to register; contact the society office")
)

// ExecuteSignup creates a resident account after checking the authorized
// email allow-list. The role comes from the allow-list entry, so office
// staff can pre-authorize admins.
// PRE: Valid email and password provided
// POST: Account created with hashed password; welcome email sent when a
// sender is configured
// INVARIANT: Only allow-listed emails may register; existing accounts are
// never overwritten
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (string, error) {
	if input.Email == "" {
		return "", account.ErrEmptyEmail
	}
	if input.Password == "" {
		return "", account.ErrEmptyPassword
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	authorized, err := deps.AccountStore.GetAuthorizedEmail(ctx, input.Email)
	if err != nil {
		slog.Info("auth_event", "event", "signup_rejected", "email", input.Email, "reason", "not_authorized")
		return "", ErrEmailNotAuthorized
	}

	role := authorized.Role
	if role == "" {
		role = account.RoleResident
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "signup_success", "email", input.Email, "role", role)

	if deps.EmailSender != nil {
		_, err := deps.EmailSender.Send(ctx, email.SendRequest{
			To:      []string{acct.Email},
			Subject: "Welcome to the Godrej Emerald community portal",
			HTML: fmt.Sprintf("<p>Hello,</p><p>Your account for the Godrej Emerald community portal is ready. "+
				"Sign in with %s to browse event photos and stay in touch.</p>", acct.Email),
		})
		if err != nil {
			// Account creation already succeeded; the welcome email is best effort.
			slog.Warn("signup_welcome_email_failed", "email", acct.Email, "error", err)
		}
	}

	return acct.ID, nil
}
