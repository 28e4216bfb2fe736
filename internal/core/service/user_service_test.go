package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/core/domain"
	"github.com/identitykit/identity-api/internal/core/ports"
	"github.com/identitykit/identity-api/internal/security/password"
)

type stubUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
	nextID  int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Profile != nil {
		profile := *u.Profile
		clone.Profile = &profile
	}
	return &clone
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	if stored.Profile != nil {
		stored.Profile.UserID = stored.ID
	}
	r.byEmail[stored.Email] = stored
	r.byID[stored.ID] = stored
	return cloneUser(stored), nil
}

// stubUoW records transaction outcomes while running fn directly.
type stubUoW struct {
	committed  int
	rolledBack int
}

func (u *stubUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		u.rolledBack++
		return err
	}
	u.committed++
	return nil
}

func newTestService() (*UserService, *stubUserRepo, *stubUoW) {
	repo := newStubUserRepo()
	uow := &stubUoW{}
	svc := NewUserService(repo, uow, zerolog.Nop())
	// Cheap hashing keeps the suite fast.
	svc.hashParams = password.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, KeyLen: 32}
	return svc, repo, uow
}

func registration(email, pass string) ports.Registration {
	return ports.Registration{Email: email, Password: pass, Profile: domain.Profile{FirstName: "Ada"}}
}

func TestRegister_Success(t *testing.T) {
	svc, _, uow := newTestService()

	user, err := svc.Register(context.Background(), registration("ada@example.com", "longpass1"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !user.Persisted() {
		t.Fatalf("expected persisted user, got id %d", user.ID)
	}
	if user.HashedPassword == "longpass1" || user.HashedPassword == "" {
		t.Fatalf("password not hashed: %q", user.HashedPassword)
	}
	if !user.IsActive || user.IsSuperuser || !user.IsVerified {
		t.Fatalf("unexpected flags: active=%v superuser=%v verified=%v", user.IsActive, user.IsSuperuser, user.IsVerified)
	}
	if user.Profile == nil || user.Profile.FirstName != "Ada" {
		t.Fatalf("profile not attached: %+v", user.Profile)
	}
	if uow.committed != 1 || uow.rolledBack != 0 {
		t.Fatalf("expected one commit, got committed=%d rolledBack=%d", uow.committed, uow.rolledBack)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, uow := newTestService()

	if _, err := svc.Register(context.Background(), registration("dup@example.com", "longpass1")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register(context.Background(), registration("dup@example.com", "otherpass2"))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if uow.rolledBack != 1 {
		t.Fatalf("expected rollback on duplicate, got %d", uow.rolledBack)
	}
}

func TestRegister_RunsAfterRegisterHook(t *testing.T) {
	svc, _, _ := newTestService()

	var hookedID int64
	svc.WithAfterRegister(func(_ context.Context, u *domain.User) { hookedID = u.ID })

	user, err := svc.Register(context.Background(), registration("hook@example.com", "longpass1"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if hookedID != user.ID {
		t.Fatalf("hook saw id %d, want %d", hookedID, user.ID)
	}
}

func TestRegister_ReportsHashDuration(t *testing.T) {
	svc, _, _ := newTestService()

	var observed time.Duration
	svc.WithHashObserver(func(d time.Duration) { observed = d })

	if _, err := svc.Register(context.Background(), registration("timed@example.com", "longpass1")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if observed <= 0 {
		t.Fatalf("hash observer not called, got %v", observed)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Register(context.Background(), registration("carol@example.com", "s3cretpass")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "carol@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthenticate_UnifiedFailure(t *testing.T) {
	svc, repo, _ := newTestService()

	if _, err := svc.Register(context.Background(), registration("dave@example.com", "s3cretpass")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Unknown email, wrong password, inactive account and missing hash must
	// all collapse into the same error.
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "dave@example.com", "wrongpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	repo.byEmail["dave@example.com"].IsActive = false
	if _, err := svc.Authenticate(context.Background(), "dave@example.com", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("inactive user: expected ErrInvalidCredentials, got %v", err)
	}

	repo.byEmail["dave@example.com"].IsActive = true
	repo.byEmail["dave@example.com"].HashedPassword = ""
	if _, err := svc.Authenticate(context.Background(), "dave@example.com", "s3cretpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("missing hash: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGetActiveUserByID(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Register(context.Background(), registration("eve@example.com", "s3cretpass"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.GetActiveUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetActiveUserByID returned error: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.GetActiveUserByID(context.Background(), 9999); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("missing user: expected ErrInvalidToken, got %v", err)
	}

	repo.byID[created.ID].IsActive = false
	if _, err := svc.GetActiveUserByID(context.Background(), created.ID); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("deactivated user: expected ErrInvalidToken, got %v", err)
	}
}

func TestCreateUser_PropagatesRepoError(t *testing.T) {
	svc, repo, _ := newTestService()

	now := time.Now().UTC()
	seed := &domain.User{Email: "frank@example.com", HashedPassword: "x", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if _, err := svc.CreateUser(context.Background(), seed); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), cloneUser(seed)); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(repo.byID))
	}
}
