package ports

import (
	"context"

	"github.com/identitykit/identity-api/internal/core/domain"
)

// UserRepository defines the persistence operations for users and their
// profiles. Implementations return domain.ErrUserNotFound on lookup misses and
// domain.ErrUserExists on an email uniqueness violation.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Insert persists the user and its profile, assigns the numeric ID and
	// returns the stored record.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
}

// UnitOfWork runs fn inside one database transaction: commit when fn returns
// nil, roll back when it returns an error. Every exit path, early return
// included, either commits or rolls back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
