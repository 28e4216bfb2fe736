package auth

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/api/metrics"
	"github.com/identitykit/identity-api/internal/core/domain"
	"github.com/identitykit/identity-api/internal/core/ports"
)

// Manager sequences the user service and the authentication backend for the
// five HTTP operations. Domain errors pass through unchanged; the central
// error handler maps them to statuses.
type Manager struct {
	backend *Backend
	users   ports.UserService
	audit   ports.AuditRecorder
	log     zerolog.Logger
}

func NewManager(backend *Backend, users ports.UserService, audit ports.AuditRecorder, log zerolog.Logger) *Manager {
	return &Manager{backend: backend, users: users, audit: audit, log: log}
}

// Login authenticates the credentials and writes the dual-token response.
func (m *Manager) Login(c echo.Context, email, password string) error {
	user, err := m.users.Authenticate(c.Request().Context(), email, password)
	if err != nil {
		m.record(c, domain.AuditEvent{Action: domain.AuditActionLogin, Email: email, Reason: reason(err)})
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	m.record(c, domain.AuditEvent{Action: domain.AuditActionLogin, Email: email, UserID: user.ID, Success: true})
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	m.log.Info().Int64("user_id", user.ID).Str("email", email).Msg("user login")
	return m.backend.MakeAuthenticationResponse(c, user)
}

// Logout clears the refresh cookie. The access token is not revoked; it
// simply ages out.
func (m *Manager) Logout(c echo.Context, user *domain.User) {
	m.backend.MakeLogoutResponse(c)
	m.record(c, domain.AuditEvent{Action: domain.AuditActionLogout, Email: user.Email, UserID: user.ID, Success: true})
	m.log.Info().Int64("user_id", user.ID).Msg("user logout")
}

// Refresh validates the refresh token, re-checks that its subject is still an
// active user, and rotates both tokens. A refresh token for a deactivated or
// deleted user fails rather than reissuing.
func (m *Manager) Refresh(c echo.Context, token string) error {
	payload, err := m.backend.DecodeRefreshToken(token)
	if err != nil {
		m.record(c, domain.AuditEvent{Action: domain.AuditActionRefresh, Reason: reason(err)})
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return err
	}

	user, err := m.users.GetActiveUserByID(c.Request().Context(), payload.UserID)
	if err != nil {
		m.record(c, domain.AuditEvent{Action: domain.AuditActionRefresh, UserID: payload.UserID, Reason: reason(err)})
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return err
	}

	m.record(c, domain.AuditEvent{Action: domain.AuditActionRefresh, Email: user.Email, UserID: user.ID, Success: true})
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	m.log.Info().Int64("user_id", user.ID).Msg("token refresh")
	return m.backend.MakeAuthenticationResponse(c, user)
}

// Register creates the account and logs it in immediately, returning the same
// dual-token response as Login.
func (m *Manager) Register(c echo.Context, reg ports.Registration) error {
	user, err := m.users.Register(c.Request().Context(), reg)
	if err != nil {
		m.record(c, domain.AuditEvent{Action: domain.AuditActionRegister, Email: reg.Email, Reason: reason(err)})
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	m.record(c, domain.AuditEvent{Action: domain.AuditActionRegister, Email: user.Email, UserID: user.ID, Success: true})
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	m.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return m.backend.MakeAuthenticationResponse(c, user)
}

// CurrentUser resolves a bearer access token to an active user.
func (m *Manager) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	payload, err := m.backend.DecodeAccessToken(token)
	if err != nil {
		return nil, err
	}
	return m.users.GetActiveUserByID(ctx, payload.UserID)
}

// GetActiveUser is the administrative read path. The token-flavored lookup
// error becomes a plain not-found: here the ID comes from the URL, not from a
// credential.
func (m *Manager) GetActiveUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := m.users.GetActiveUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// RefreshCookieName exposes the refresh cookie's name for request parsing.
func (m *Manager) RefreshCookieName() string {
	return m.backend.RefreshCookieName()
}

func (m *Manager) record(c echo.Context, event domain.AuditEvent) {
	if m.audit == nil {
		return
	}
	event.RemoteAddr = c.RealIP()
	event.OccurredAt = time.Now().UTC()
	m.audit.Record(event)
}

// reason flattens an error into a short audit label.
func reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, domain.ErrUserExists):
		return "user_exists"
	default:
		return "error"
	}
}
