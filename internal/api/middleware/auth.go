package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/identity-api/internal/api/handler"
	"github.com/identitykit/identity-api/internal/core/domain"
)

// CurrentUserResolver turns a bearer access token into an active user. The
// auth manager satisfies this.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// Auth validates the bearer access token and injects the resolved user into
// the request context. Token errors (missing, malformed, expired, wrong kind,
// deactivated subject) surface through the central error handler as 401s.
func Auth(resolver CurrentUserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := resolver.CurrentUser(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

// bearerToken extracts the token from the Authorization header. A missing or
// malformed header is the same failure as a missing token.
func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrInvalidToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", domain.ErrInvalidToken
	}
	return parts[1], nil
}
