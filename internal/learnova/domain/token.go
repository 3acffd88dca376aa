package domain

import "time"

// TokenType distinguishes the single-use tokens stored for a user.
type TokenType string

const (
	TokenVerifyEmail      TokenType = "verify_email"
	TokenResetPassword    TokenType = "reset_password"
	TokenDeleteAccountOTP TokenType = "delete_account_otp"
)

// Expiry policy.
const (
	VerifyEmailTTL      = 24 * time.Hour
	ResetPasswordTTL    = 15 * time.Minute
	DeleteAccountOTPTTL = 10 * time.Minute
	CourseInviteTTL     = 7 * 24 * time.Hour
)

// DeleteAccountOTPLength is the exact length of an account deletion code.
const DeleteAccountOTPLength = 6

// TTL returns the lifetime of a freshly issued token of type t.
func (t TokenType) TTL() time.Duration {
	switch t {
	case TokenVerifyEmail:
		return VerifyEmailTTL
	case TokenResetPassword:
		return ResetPasswordTTL
	case TokenDeleteAccountOTP:
		return DeleteAccountOTPTTL
	default:
		return 0
	}
}

// SupersedesPrevious reports whether issuing a token of this type
// invalidates older unused tokens of the same type for the same user.
func (t TokenType) SupersedesPrevious() bool {
	return t == TokenResetPassword || t == TokenDeleteAccountOTP
}

func (t TokenType) Valid() bool { return t.TTL() > 0 }

// UserToken is a stored single-use token. A token is live while UsedAt is
// nil and ExpiresAt is in the future.
type UserToken struct {
	ID        string
	UserID    *string // nil once the owning account is deleted
	Type      TokenType
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t UserToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
