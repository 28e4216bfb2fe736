package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/identitykit/identity-api/internal/core/domain"
	"github.com/identitykit/identity-api/internal/core/ports"
)

// stubCodec mints transparent tokens of the form "<kind>:<id>" so tests can
// assert on transport behaviour without real signatures.
type stubCodec struct {
	failCreate bool
}

func (s *stubCodec) CreateAccessToken(userID int64, _ []string) (string, error) {
	if s.failCreate {
		return "", fmt.Errorf("stub: create failed")
	}
	return fmt.Sprintf("access:%d", userID), nil
}

func (s *stubCodec) CreateRefreshToken(userID int64) (string, error) {
	if s.failCreate {
		return "", fmt.Errorf("stub: create failed")
	}
	return fmt.Sprintf("refresh:%d", userID), nil
}

func (s *stubCodec) DecodeToken(token string) (*domain.TokenPayload, error) {
	kind, idStr, ok := strings.Cut(token, ":")
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	if kind == "expired" {
		return nil, domain.ErrExpiredToken
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || (kind != "access" && kind != "refresh") {
		return nil, domain.ErrInvalidToken
	}
	return &domain.TokenPayload{
		UserID:    id,
		Kind:      domain.TokenKind(kind),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// stubUserService serves a fixed set of users keyed by email and id.
type stubUserService struct {
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
	nextID  int64
}

func newStubUserService(users ...*domain.User) *stubUserService {
	s := &stubUserService{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
	}
	for _, u := range users {
		s.byEmail[u.Email] = u
		s.byID[u.ID] = u
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
	}
	return s
}

func (s *stubUserService) Authenticate(_ context.Context, email, pass string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok || !u.IsActive || u.HashedPassword != pass {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *stubUserService) GetActiveUserByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok || !u.IsActive {
		return nil, domain.ErrInvalidToken
	}
	return u, nil
}

func (s *stubUserService) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := s.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	s.nextID++
	user.ID = s.nextID
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubUserService) Register(ctx context.Context, reg ports.Registration) (*domain.User, error) {
	profile := reg.Profile
	return s.CreateUser(ctx, &domain.User{
		Email:          reg.Email,
		HashedPassword: reg.Password,
		IsActive:       true,
		IsVerified:     true,
		Profile:        &profile,
	})
}

// recordingAudit captures events synchronously.
type recordingAudit struct {
	events []domain.AuditEvent
}

func (r *recordingAudit) Record(event domain.AuditEvent) {
	r.events = append(r.events, event)
}
