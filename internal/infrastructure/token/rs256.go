// Package token implements the signed-token codec on RS256 JWTs. The private
// key signs, the public key verifies, so verification can be delegated to
// services holding only the public half.
package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/identitykit/identity-api/internal/core/domain"
)

const algorithm = "RS256"

type claims struct {
	TokenType string   `json:"token_type"`
	Scopes    []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// RS256Codec signs access and refresh tokens with a fixed RSA key pair.
type RS256Codec struct {
	signKey    *rsa.PrivateKey
	verifyKey  *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewRS256Codec loads both PEM files and returns a ready codec. An unreadable
// or unparsable key file is a fatal startup condition, not a request error.
func NewRS256Codec(privateKeyPath, publicKeyPath string, accessTTL, refreshTTL time.Duration) (*RS256Codec, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("token: read private key: %w", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("token: parse private key: %w", err)
	}

	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("token: read public key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("token: parse public key: %w", err)
	}

	return &RS256Codec{
		signKey:    priv,
		verifyKey:  pub,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// CreateAccessToken signs a short-lived access token. Scopes are embedded only
// when non-empty.
func (c *RS256Codec) CreateAccessToken(userID int64, scopes []string) (string, error) {
	return c.sign(userID, domain.TokenKindAccess, scopes, c.accessTTL)
}

// CreateRefreshToken signs a long-lived refresh token. Refresh tokens never
// carry scopes.
func (c *RS256Codec) CreateRefreshToken(userID int64) (string, error) {
	return c.sign(userID, domain.TokenKindRefresh, nil, c.refreshTTL)
}

func (c *RS256Codec) sign(userID int64, kind domain.TokenKind, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	cl := claims{
		TokenType: string(kind),
		Scopes:    scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, cl).SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("token: sign %s token: %w", kind, err)
	}
	return signed, nil
}

// DecodeToken verifies the signature and expiry and returns the payload.
// Expiry is the only failure distinguished for callers; everything else
// (bad signature, malformed payload, unexpected algorithm, bad subject)
// collapses into domain.ErrInvalidToken.
func (c *RS256Codec) DecodeToken(token string) (*domain.TokenPayload, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return c.verifyKey, nil
	}, jwt.WithValidMethods([]string{algorithm}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, domain.ErrInvalidToken
	}

	kind := domain.TokenKind(cl.TokenType)
	if kind != domain.TokenKindAccess && kind != domain.TokenKindRefresh {
		return nil, domain.ErrInvalidToken
	}

	payload := &domain.TokenPayload{
		UserID: userID,
		Kind:   kind,
		Scopes: cl.Scopes,
	}
	if cl.ExpiresAt != nil {
		payload.ExpiresAt = cl.ExpiresAt.Time
	}
	return payload, nil
}
