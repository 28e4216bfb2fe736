package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/identitykit/identity-api/internal/api/handler"
	"github.com/identitykit/identity-api/internal/core/domain"
)

// Superuser gates administrative routes. It must run after Auth; an absent
// user in context is treated as unauthenticated, not as a server error.
func Superuser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(handler.CurrentUserKey).(*domain.User)
			if user == nil {
				return domain.ErrInvalidToken
			}
			if !user.IsSuperuser {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
