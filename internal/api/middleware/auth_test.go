package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/identity-api/internal/api/handler"
	"github.com/identitykit/identity-api/internal/core/domain"
)

// stubResolver accepts exactly one token.
type stubResolver struct {
	token string
	user  *domain.User
}

func (s *stubResolver) CurrentUser(_ context.Context, token string) (*domain.User, error) {
	if token != s.token {
		return nil, domain.ErrInvalidToken
	}
	return s.user, nil
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authorization string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error { return nil }
	return c, mw(next)(c)
}

func TestAuth_ValidToken(t *testing.T) {
	user := &domain.User{ID: 5, Email: "a@b.com", IsActive: true}
	mw := Auth(&stubResolver{token: "tok123", user: user})

	c, err := invoke(t, mw, "Bearer tok123")
	if err != nil {
		t.Fatalf("middleware: %v", err)
	}
	got, _ := c.Get(handler.CurrentUserKey).(*domain.User)
	if got == nil || got.ID != 5 {
		t.Fatalf("user not injected: %+v", got)
	}
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	mw := Auth(&stubResolver{token: "tok123", user: &domain.User{ID: 1}})

	if _, err := invoke(t, mw, "bearer tok123"); err != nil {
		t.Fatalf("lowercase scheme rejected: %v", err)
	}
}

func TestAuth_Rejections(t *testing.T) {
	mw := Auth(&stubResolver{token: "tok123", user: &domain.User{ID: 1}})

	cases := map[string]string{
		"missing header": "",
		"no scheme":      "tok123",
		"wrong scheme":   "Basic tok123",
		"empty token":    "Bearer ",
		"unknown token":  "Bearer nope",
	}
	for name, header := range cases {
		c, err := invoke(t, mw, header)
		if !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
		if u := c.Get(handler.CurrentUserKey); u != nil {
			t.Fatalf("%s: user must not be injected on failure", name)
		}
	}
}

func TestSuperuser(t *testing.T) {
	mw := Superuser()
	next := func(c echo.Context) error { return nil }
	e := echo.New()

	newCtx := func(user *domain.User) echo.Context {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if user != nil {
			c.Set(handler.CurrentUserKey, user)
		}
		return c
	}

	if err := mw(next)(newCtx(&domain.User{ID: 1, IsSuperuser: true})); err != nil {
		t.Fatalf("superuser rejected: %v", err)
	}
	if err := mw(next)(newCtx(&domain.User{ID: 2})); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := mw(next)(newCtx(nil)); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
