package domain

import "time"

// Audit actions recorded for the authentication flow.
const (
	AuditActionLogin    = "login"
	AuditActionRefresh  = "refresh"
	AuditActionRegister = "register"
	AuditActionLogout   = "logout"
)

// AuditEvent records the outcome of one authentication operation. Events are
// written off the request path; losing a tail of events on shutdown is
// acceptable.
type AuditEvent struct {
	Action     string    `json:"action"`
	Email      string    `json:"email,omitempty"`
	UserID     int64     `json:"user_id,omitempty"`
	Success    bool      `json:"success"`
	Reason     string    `json:"reason,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
