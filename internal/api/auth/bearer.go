package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/identity-api/internal/core/domain"
)

// BearerResponse is the login body for the bearer transport.
type BearerResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// BearerTransport delivers the access token in the JSON response body. It has
// no server-side session: clients "log out" by discarding the token, so
// MakeLogoutResponse is unsupported by design.
type BearerTransport struct{}

var _ Transport = (*BearerTransport)(nil)

func NewBearerTransport() *BearerTransport {
	return &BearerTransport{}
}

func (t *BearerTransport) MakeLoginResponse(c echo.Context, token string) error {
	return c.JSON(http.StatusOK, BearerResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (t *BearerTransport) MakeLogoutResponse(echo.Context) error {
	return domain.ErrLogoutNotSupported
}
