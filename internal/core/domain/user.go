package domain

import "time"

// User models an account in the identity system. A zero ID means the user has
// not been persisted yet; the repository assigns the ID on insert and it is
// immutable afterwards.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Profile is owned exclusively by this user and shares its lifecycle:
	// created in the same transaction, removed together with the user.
	Profile *Profile `json:"profile,omitempty"`
}

// Persisted reports whether the user has been assigned a durable identity.
func (u *User) Persisted() bool {
	return u != nil && u.ID != 0
}

// Profile holds optional display attributes for exactly one user.
type Profile struct {
	UserID     int64     `json:"user_id"`
	FirstName  string    `json:"first_name,omitempty"`
	Patronymic string    `json:"patronymic,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Timezone   string    `json:"timezone,omitempty"`
	Locale     string    `json:"locale,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
