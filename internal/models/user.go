package models

import (
	"strings"
	"time"
)

// UserRole represents the available roles. Authorization is binary.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// NormalizeRole maps unknown values to the least privileged role.
func NormalizeRole(raw string) UserRole {
	if UserRole(strings.ToLower(strings.TrimSpace(raw))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User represents an application user stored in the users table.
type User struct {
	ID                 string    `db:"id" json:"id"`
	UsernameDisplay    string    `db:"username_display" json:"username"`
	UsernameNormalized string    `db:"username_normalized" json:"-"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	Role               UserRole  `db:"role" json:"role"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Session is a server-side login record referenced by the access token id.
type Session struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// SessionUser is a live session joined with its owner.
type SessionUser struct {
	SessionID string   `db:"session_id"`
	UserID    string   `db:"user_id"`
	Username  string   `db:"username_display"`
	Role      UserRole `db:"role"`
}
