package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/identitykit/identity-api/internal/api/auth"
	"github.com/identitykit/identity-api/internal/core/domain"
	"github.com/identitykit/identity-api/internal/core/ports"
)

type AuthHandler struct {
	manager *auth.Manager
}

func NewAuthHandler(manager *auth.Manager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// Login authenticates a user with form credentials and returns the token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Account email"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  auth.BearerResponse
// @Failure      401  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	// OAuth2 password-grant style form fields: the email travels as
	// "username".
	email := c.FormValue("username")
	pass := c.FormValue("password")
	if email == "" || pass == "" {
		return domain.ErrInvalidCredentials
	}
	return h.manager.Login(c, email, pass)
}

// Logout clears the refresh cookie. The current access token remains valid
// until expiry.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	h.manager.Logout(c, user)
	return c.JSON(http.StatusOK, successResponse{Success: true, Message: "Logged out"})
}

// Register creates an account and signs it in immediately.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  auth.BearerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.manager.Register(c, ports.Registration{
		Email:    req.Email,
		Password: req.Password,
		Profile:  req.Profile.toDomain(),
	})
}

// Me returns the authenticated user's record.
//
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /user/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Refresh exchanges the refresh cookie for a fresh token pair, rotating both
// tokens.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Produce      json
// @Success      200  {object}  auth.BearerResponse
// @Failure      401  {object}  map[string]string
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var token string
	if ck, err := c.Cookie(h.manager.RefreshCookieName()); err == nil {
		token = ck.Value
	}
	return h.manager.Refresh(c, token)
}

// GetUser returns any user's record by ID. Superuser only.
//
// @Summary      Get user by id
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.manager.GetActiveUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
