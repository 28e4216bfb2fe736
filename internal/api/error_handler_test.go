package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitykit/identity-api/internal/core/domain"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/", func(echo.Context) error { return err })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestErrorHandler_Taxonomy(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrLogoutNotSupported, http.StatusUnauthorized},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{echo.NewHTTPError(http.StatusTeapot, "teapot"), http.StatusTeapot},
	}
	for _, tc := range cases {
		rec := serveError(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Fatalf("%v: missing error envelope: %s", tc.err, rec.Body.String())
		}
	}
}

func TestErrorHandler_ExpiredStaysDistinct(t *testing.T) {
	rec := serveError(t, domain.ErrExpiredToken)
	if !strings.Contains(rec.Body.String(), "expired token") {
		t.Fatalf("expired token must be named, got %s", rec.Body.String())
	}
}

func TestErrorHandler_UnknownErrorsAreOpaque(t *testing.T) {
	rec := serveError(t, fmt.Errorf("mongo: socket closed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestErrorHandler_WrappedDomainErrors(t *testing.T) {
	rec := serveError(t, fmt.Errorf("refresh: %w", domain.ErrInvalidToken))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrapped sentinel not recognised, got %d", rec.Code)
	}
}
