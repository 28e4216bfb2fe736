package domain

import "errors"

// Sentinel errors for the authentication flow. Handlers never branch on error
// strings; the HTTP error handler maps these to status codes in one place.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// (and inactive accounts at login time). Deliberately a single error so
	// responses do not reveal which case occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers missing, malformed, wrong-kind and unverifiable
	// tokens, and tokens whose subject is no longer an active user.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is a structurally valid token past its expiry. Kept
	// separate from ErrInvalidToken so clients can decide to attempt a refresh.
	ErrExpiredToken = errors.New("expired token")

	// ErrLogoutNotSupported is returned by transports that have no
	// server-side session state to clear.
	ErrLogoutNotSupported = errors.New("transport logout not supported")

	// ErrUserExists surfaces the unique-email constraint on create.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is an internal lookup miss; it never reaches login
	// responses (Authenticate folds it into ErrInvalidCredentials).
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden rejects authenticated users lacking the required privilege.
	ErrForbidden = errors.New("access forbidden")
)
