package domain

import (
	"strings"
	"time"
)

type User struct {
	ID              string
	Email           string // stored lower-cased
	FullName        string
	AvatarURL       *string
	PasswordHash    string // pbkdf2 encoded
	Role            SystemRole
	IsEmailVerified bool
	TokenVersion    int64 // bumped to revoke every issued bearer token
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SystemRole is the platform-wide role of a user.
type SystemRole string

const (
	RoleOwner      SystemRole = "owner"
	RoleAdmin      SystemRole = "admin"
	RoleInstructor SystemRole = "instructor"
	RoleAssistant  SystemRole = "assistant"
	RoleStudent    SystemRole = "student"
)

// ParseSystemRole returns the role named by s.
func ParseSystemRole(s string) (SystemRole, bool) {
	switch r := SystemRole(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleOwner, RoleAdmin, RoleInstructor, RoleAssistant, RoleStudent:
		return r, true
	}
	return "", false
}

// Identity is the authenticated caller, resolved once per request from the
// bearer token and the live user row.
type Identity struct {
	UserID       string
	Email        string
	FullName     string
	Role         SystemRole
	Verified     bool
	TokenVersion int64
}

// IdentityOf builds the Identity for u.
func IdentityOf(u User) Identity {
	return Identity{
		UserID:       u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		Verified:     u.IsEmailVerified,
		TokenVersion: u.TokenVersion,
	}
}

// HasRole reports whether the caller holds one of roles.
func (i Identity) HasRole(roles ...SystemRole) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
