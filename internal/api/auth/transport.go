// Package auth composes the token codec with the two token transports and
// exposes the manager the HTTP handlers call. Everything here is
// request-scoped; no state survives between calls.
package auth

import "github.com/labstack/echo/v4"

// Transport is a strategy for delivering a token to the client. Exactly two
// implementations exist — bearer (response body) and cookie — and the
// authentication backend assumes exactly one of each.
type Transport interface {
	// MakeLoginResponse writes a successful authentication response carrying
	// the token.
	MakeLoginResponse(c echo.Context, token string) error
	// MakeLogoutResponse clears whatever client-side state the transport
	// manages. Transports with nothing to clear return
	// domain.ErrLogoutNotSupported.
	MakeLogoutResponse(c echo.Context) error
}
