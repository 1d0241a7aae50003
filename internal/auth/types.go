package auth

import (
	"errors"
	"time"
)

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser is a standard account holder. Can read and update their
	// own profile and hold sessions.
	RoleUser Role = "user"

	// RoleAdmin can additionally list accounts and read the audit trail.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of roles an account may hold.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValidRole returns true if the role is a recognised account role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair bundles the access and refresh tokens issued for a session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Sentinel errors for auth operations.
var (
	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password sign-in failures so callers cannot distinguish them.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailExists       = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrTokenExpired      = errors.New("token has expired")
	ErrTokenMalformed    = errors.New("invalid token")
	ErrTokenTypeMismatch = errors.New("invalid token type")
	ErrTokenWrongIssuer  = errors.New("token issuer or audience mismatch")
	ErrForbidden         = errors.New("insufficient permissions")
)
