// Package bootstrap seeds the initial administrator account at startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/core/domain"
	"github.com/identitykit/identity-api/internal/core/ports"
	"github.com/identitykit/identity-api/internal/security/password"
)

// EnsureAdmin makes sure the configured superuser exists. Check-then-insert:
// the lookup keeps the common restart path quiet, and a concurrent replica
// losing the insert race to the unique email index is treated as success —
// the account exists either way.
func EnsureAdmin(ctx context.Context, repo ports.UserRepository, svc ports.UserService, email, plainPassword string, log zerolog.Logger) error {
	if plainPassword == "" {
		log.Warn().Msg("admin password not configured, skipping admin bootstrap")
		return nil
	}

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Debug().Str("email", email).Msg("admin user present")
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	hashed, err := password.Hash(password.DefaultParams, plainPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    true,
		IsVerified:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
		Profile:        &domain.Profile{},
	}

	if _, err := svc.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			log.Info().Str("email", email).Msg("admin user already exists")
			return nil
		}
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	log.Info().Str("email", email).Msg("admin user created")
	return nil
}
