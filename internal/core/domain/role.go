package domain

import "time"

// Role, Permission and RoleAssignment describe the authorization schema. They
// are persisted and indexed but not consulted by the authentication flow;
// access tokens carry scopes instead.

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Permission struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// RoleAssignment links one user to one role, with provenance. The pair
// (UserID, RoleID) is unique.
type RoleAssignment struct {
	UserID     int64     `json:"user_id"`
	RoleID     int64     `json:"role_id"`
	Source     string    `json:"source,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}
