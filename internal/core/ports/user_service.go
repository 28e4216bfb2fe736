package ports

import (
	"context"

	"github.com/identitykit/identity-api/internal/core/domain"
)

// Registration carries validated sign-up input into the service layer.
type Registration struct {
	Email    string
	Password string
	Profile  domain.Profile
}

// UserService holds the user business rules consumed by the auth manager.
type UserService interface {
	// Authenticate returns the active user matching the credentials, or
	// domain.ErrInvalidCredentials. Unknown email, wrong password, missing
	// hash and inactive account are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetActiveUserByID returns the user when it exists and is active, and
	// domain.ErrInvalidToken otherwise: a token for a deactivated user must
	// stop working on next use, not at expiry.
	GetActiveUserByID(ctx context.Context, id int64) (*domain.User, error)

	// CreateUser persists the user inside a transaction boundary.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// Register hashes the password, persists user plus profile and runs the
	// post-registration hook. New accounts are active and verified.
	Register(ctx context.Context, reg Registration) (*domain.User, error)
}
