package handler

import (
	"github.com/identitykit/identity-api/internal/core/domain"
)

// registerRequest is the JSON body for POST /register. Password length is
// enforced here, before any service call.
type registerRequest struct {
	Email    string         `json:"email"    validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8"`
	Profile  profilePayload `json:"profile"`
}

// profilePayload carries the optional display attributes collected at
// sign-up. All fields may be empty.
type profilePayload struct {
	FirstName  string `json:"first_name,omitempty"`
	Patronymic string `json:"patronymic,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Bio        string `json:"bio,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

func (p profilePayload) toDomain() domain.Profile {
	return domain.Profile{
		FirstName:  p.FirstName,
		Patronymic: p.Patronymic,
		LastName:   p.LastName,
		Bio:        p.Bio,
		AvatarURL:  p.AvatarURL,
		Timezone:   p.Timezone,
		Locale:     p.Locale,
	}
}

// successResponse is the body for operations with nothing else to return.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// userResponse is the GET /user/me shape: the account record minus anything
// secret.
type userResponse struct {
	ID          int64            `json:"id"`
	Email       string           `json:"email"`
	IsActive    bool             `json:"is_active"`
	IsSuperuser bool             `json:"is_superuser"`
	IsVerified  bool             `json:"is_verified"`
	Profile     *profileResponse `json:"profile,omitempty"`
}

type profileResponse struct {
	UserID     int64  `json:"user_id"`
	FirstName  string `json:"first_name,omitempty"`
	Patronymic string `json:"patronymic,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Bio        string `json:"bio,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:          u.ID,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		IsVerified:  u.IsVerified,
	}
	if u.Profile != nil {
		resp.Profile = &profileResponse{
			UserID:     u.Profile.UserID,
			FirstName:  u.Profile.FirstName,
			Patronymic: u.Profile.Patronymic,
			LastName:   u.Profile.LastName,
			Bio:        u.Profile.Bio,
			AvatarURL:  u.Profile.AvatarURL,
			Timezone:   u.Profile.Timezone,
			Locale:     u.Profile.Locale,
		}
	}
	return resp
}
