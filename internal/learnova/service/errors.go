package service

import (
	"errors"
	"fmt"

	"github.com/learnova/learnova/internal/learnova/domain"
)

var (
	ErrNotAuthenticated    = errors.New("not_authenticated")
	ErrTokenRevoked        = errors.New("token_revoked")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrNotVerified         = errors.New("email_not_verified")
	ErrTokenInvalid        = errors.New("invalid_token")
	ErrNotEligible         = errors.New("not_eligible")
	ErrInvitationRevoked   = errors.New("invitation_revoked")
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrGone                = errors.New("gone")
	ErrNotFound            = errors.New("not_found")
	ErrValidation          = errors.New("invalid_request")
	ErrInviteSecretMissing = errors.New("server_misconfigured")

	// ErrInvalidTransition is the sentinel behind every *domain.TransitionError.
	ErrInvalidTransition = domain.ErrInvalidTransition
)

// Error pairs a sentinel with a human readable description for the client.
type Error struct {
	Err         error
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Description
}

func (e *Error) Unwrap() error { return e.Err }

func describe(err error, description string) error {
	return &Error{Err: err, Description: description}
}

func describef(err error, format string, args ...any) error {
	return &Error{Err: err, Description: fmt.Sprintf(format, args...)}
}

func invalidf(format string, args ...any) error {
	return describef(ErrValidation, format, args...)
}

// Description returns the client facing text carried by err, or "".
func Description(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Description
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		return te.Error()
	}
	return ""
}
