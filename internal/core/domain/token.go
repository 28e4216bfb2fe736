package domain

import "time"

// TokenKind distinguishes the two credentials the codec mints. An access token
// authorizes API calls; a refresh token is only good for minting a new pair.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenPayload is the decoded, verified content of a signed token. It lives
// for the duration of a single request and is never persisted.
type TokenPayload struct {
	UserID    int64
	Kind      TokenKind
	Scopes    []string
	ExpiresAt time.Time
}
