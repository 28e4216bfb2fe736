package ports

import "github.com/identitykit/identity-api/internal/core/domain"

// TokenCodec signs and verifies the two token kinds. Implementations are
// stateless after construction; key material is loaded once at startup.
type TokenCodec interface {
	CreateAccessToken(userID int64, scopes []string) (string, error)
	CreateRefreshToken(userID int64) (string, error)
	// DecodeToken verifies signature and expiry. It returns
	// domain.ErrExpiredToken for an otherwise valid token past its expiry and
	// domain.ErrInvalidToken for every other failure.
	DecodeToken(token string) (*domain.TokenPayload, error)
}
