package auth

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/core/domain"
	"github.com/identitykit/identity-api/internal/core/ports"
)

// Backend pairs the token codec with the two transports: access tokens travel
// as a bearer JSON body, refresh tokens as an HttpOnly cookie, both on the
// same response.
type Backend struct {
	codec  ports.TokenCodec
	bearer *BearerTransport
	cookie *CookieTransport
	log    zerolog.Logger
}

func NewBackend(codec ports.TokenCodec, bearer *BearerTransport, cookie *CookieTransport, log zerolog.Logger) *Backend {
	return &Backend{codec: codec, bearer: bearer, cookie: cookie, log: log}
}

// RefreshCookieName exposes the cookie name so handlers can read the token
// off incoming requests.
func (b *Backend) RefreshCookieName() string {
	return b.cookie.Name()
}

// MakeAuthenticationResponse issues a fresh access/refresh pair for user and
// writes the dual-token response. Issuing tokens for an unpersisted user is a
// programming error, not a client failure.
func (b *Backend) MakeAuthenticationResponse(c echo.Context, user *domain.User) error {
	if !user.Persisted() {
		return fmt.Errorf("authentication response: user has no id")
	}

	accessToken, err := b.codec.CreateAccessToken(user.ID, nil)
	if err != nil {
		return fmt.Errorf("authentication response: %w", err)
	}
	refreshToken, err := b.codec.CreateRefreshToken(user.ID)
	if err != nil {
		return fmt.Errorf("authentication response: %w", err)
	}

	// Cookie header first: the bearer transport writes the body and commits
	// the response.
	b.cookie.SetToken(c, refreshToken)
	if err := b.bearer.MakeLoginResponse(c, accessToken); err != nil {
		return err
	}

	b.log.Debug().Int64("user_id", user.ID).Msg("authentication response issued")
	return nil
}

// MakeLogoutResponse clears the refresh cookie on the pending response. The
// handler owns the body; access tokens stay valid until they expire.
func (b *Backend) MakeLogoutResponse(c echo.Context) {
	b.cookie.ClearToken(c)
}

// DecodeRefreshToken validates a refresh token. Anything short of a live,
// well-formed refresh token — including an access token presented in its
// place — is domain.ErrInvalidToken.
func (b *Backend) DecodeRefreshToken(token string) (*domain.TokenPayload, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	payload, err := b.codec.DecodeToken(token)
	if err != nil {
		// Expiry is not worth distinguishing here: an expired refresh token
		// means a new login either way.
		return nil, domain.ErrInvalidToken
	}
	if payload.Kind != domain.TokenKindRefresh {
		b.log.Warn().Str("token_type", string(payload.Kind)).Msg("wrong token kind for refresh")
		return nil, domain.ErrInvalidToken
	}
	return payload, nil
}

// DecodeAccessToken validates an access token, preserving the
// expired/invalid distinction so clients know when a refresh is worth trying.
func (b *Backend) DecodeAccessToken(token string) (*domain.TokenPayload, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	payload, err := b.codec.DecodeToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrExpiredToken) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	if payload.Kind != domain.TokenKindAccess {
		b.log.Warn().Str("token_type", string(payload.Kind)).Msg("wrong token kind for api access")
		return nil, domain.ErrInvalidToken
	}
	return payload, nil
}
