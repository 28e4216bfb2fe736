package service

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

// AfterRegisterHook runs after a successful registration commit. It must not
// fail the registration; side effects such as welcome mail belong here.
type AfterRegisterHook func(ctx context.Context, user *domain.User)

// UserService implements the user business rules: credential authentication,
// active-user lookup and registration.
type UserService struct {
	repo          ports.UserRepository
	uow           ports.UnitOfWork
	hashParams    password.Params
	afterRegister AfterRegisterHook
	observeHash   func(d time.Duration)
	log           zerolog.Logger
}

func NewUserService(repo ports.UserRepository, uow ports.UnitOfWork, log zerolog.Logger) *UserService {
	return &UserService{
		repo:       repo,
		uow:        uow,
		hashParams: password.DefaultParams,
		log:        log,
	}
}

// WithAfterRegister installs the post-registration hook. Nil disables it.
func (s *UserService) WithAfterRegister(hook AfterRegisterHook) *UserService {
	s.afterRegister = hook
	return s
}

// WithHashObserver installs a callback receiving the wall-clock cost of each
// password hash. The caller decides where the measurement goes.
func (s *UserService) WithHashObserver(fn func(d time.Duration)) *UserService {
	s.observeHash = fn
	return s
}

// Authenticate verifies the email/password pair against the stored hash.
// Every failure mode returns domain.ErrInvalidCredentials so a response
// cannot reveal whether the account exists.
func (s *UserService) Authenticate(ctx context.Context, email, pass string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("email", email).Msg("authentication failed")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !user.IsActive || user.HashedPassword == "" || !password.Verify(pass, user.HashedPassword) {
		s.log.Warn().Str("email", email).Msg("authentication failed")
		return nil, domain.ErrInvalidCredentials
	}

	s.log.Info().Int64("user_id", user.ID).Str("email", email).Msg("user authenticated")
	return user, nil
}

// GetActiveUserByID resolves a token subject to a live account. A missing or
// deactivated user yields domain.ErrInvalidToken: the token is valid but no
// longer represents anyone.
func (s *UserService) GetActiveUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Int64("user_id", id).Msg("active user not found")
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("get active user: %w", err)
	}
	if !user.IsActive {
		s.log.Warn().Int64("user_id", id).Msg("user inactive")
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

// CreateUser inserts the user inside one transaction. Repository errors,
// notably domain.ErrUserExists on an email collision, propagate unchanged.
func (s *UserService) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created *domain.User
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		var insertErr error
		created, insertErr = s.repo.Insert(ctx, user)
		return insertErr
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user created")
	return created, nil
}

// Register builds and persists a user+profile pair from sign-up input. New
// accounts are immediately usable: active, verified, never superuser.
func (s *UserService) Register(ctx context.Context, reg ports.Registration) (*domain.User, error) {
	// Argon2id runs inline on the request goroutine; the observer keeps the
	// chosen cost parameters honest.
	hashStart := time.Now()
	hashed, err := password.Hash(s.hashParams, reg.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if s.observeHash != nil {
		s.observeHash(time.Since(hashStart))
	}

	now := time.Now().UTC()
	profile := reg.Profile
	user := &domain.User{
		Email:          reg.Email,
		HashedPassword: hashed,
		IsActive:       true,
		IsSuperuser:    false,
		IsVerified:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
		Profile:        &profile,
	}

	created, err := s.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	if s.afterRegister != nil {
		s.afterRegister(ctx, created)
	}
	return created, nil
}
