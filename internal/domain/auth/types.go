package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleGuest    Role = "guest"
)

// ParseRole converts a raw role string into a known Role, falling back to guest.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleEmployee, RoleManager:
		return Role(s)
	default:
		return RoleGuest
	}
}

// Identity represents the authenticated principal returned by an IdP or the refund API.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID      string // stable user identifier (e.g., sub or API user id)
	Name        string
	Email       string
	Groups      []string
	AccessToken string    // bearer token forwarded to the refund API
	ExpiresAt   time.Time // absolute expiry from the token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	AccessToken string    `json:"access_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// DisplayName returns the user's name, falling back to the email.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

// ErrSessionNotFound is matched (via errors.Is) by store errors for unknown or expired sessions.
// Any other store error means the store could not answer.
var ErrSessionNotFound = errors.New("session not found")
