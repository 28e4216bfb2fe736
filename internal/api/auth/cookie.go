package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieConfig captures the externally configurable cookie attributes.
// HttpOnly is not configurable: the refresh cookie is always withheld from
// scripts.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
	SameSite string // "lax", "strict" or "none"
}

// CookieTransport delivers the refresh token in an HTTP cookie. The deletion
// cookie reuses the exact name/path/domain used at set time; browsers will
// not clear the cookie otherwise.
type CookieTransport struct {
	cfg CookieConfig
}

var _ Transport = (*CookieTransport)(nil)

func NewCookieTransport(cfg CookieConfig) *CookieTransport {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieTransport{cfg: cfg}
}

// Name returns the configured cookie name, for request-side extraction.
func (t *CookieTransport) Name() string {
	return t.cfg.Name
}

// SetToken attaches the refresh cookie to the pending response without
// writing a body, so a body transport can complete the same response.
func (t *CookieTransport) SetToken(c echo.Context, token string) {
	ck := t.newCookie()
	ck.Value = token
	if t.cfg.MaxAge > 0 {
		ck.MaxAge = int(t.cfg.MaxAge.Seconds())
		ck.Expires = time.Now().Add(t.cfg.MaxAge).UTC()
	}
	c.SetCookie(ck)
}

// ClearToken attaches the deletion cookie to the pending response.
func (t *CookieTransport) ClearToken(c echo.Context) {
	ck := t.newCookie()
	ck.Value = ""
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0).UTC()
	c.SetCookie(ck)
}

func (t *CookieTransport) MakeLoginResponse(c echo.Context, token string) error {
	t.SetToken(c, token)
	return c.NoContent(http.StatusOK)
}

func (t *CookieTransport) MakeLogoutResponse(c echo.Context) error {
	t.ClearToken(c)
	return c.NoContent(http.StatusOK)
}

func (t *CookieTransport) newCookie() *http.Cookie {
	return &http.Cookie{
		Name:     t.cfg.Name,
		Path:     t.cfg.Path,
		Domain:   t.cfg.Domain,
		Secure:   t.cfg.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(t.cfg.SameSite),
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
