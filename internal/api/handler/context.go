package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/identity-api/internal/core/domain"
)

// CurrentUserKey is the echo.Context key under which the auth middleware
// stores the resolved *domain.User.
const CurrentUserKey = "current_user"

// ctxUser extracts the authenticated user injected by the Auth middleware.
// Its absence means the middleware did not run on a route that requires it —
// reject rather than proceed unauthenticated.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(CurrentUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
