package domain

import "time"

// InvitationStatus is the state of a course invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRevoked  InvitationStatus = "revoked"
	InvitationExpired  InvitationStatus = "expired"
)

var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationPending:  {InvitationAccepted, InvitationRevoked, InvitationExpired},
	InvitationExpired:  {InvitationAccepted, InvitationPending},
	InvitationAccepted: nil,
	InvitationRevoked:  nil,
}

// ParseInvitationStatus returns the status named by s.
func ParseInvitationStatus(s string) (InvitationStatus, bool) {
	st := InvitationStatus(s)
	_, ok := invitationTransitions[st]
	return st, ok
}

func (from InvitationStatus) CanTransition(to InvitationStatus) bool {
	for _, next := range invitationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to.
func (from InvitationStatus) Transition(to InvitationStatus) error {
	if from.CanTransition(to) {
		return nil
	}
	return &TransitionError{From: string(from), To: string(to)}
}

// Sendable reports whether a (re)send may rotate the token. Expired
// invitations are only included when the caller asks for them.
func (s InvitationStatus) Sendable(includeExpired bool) bool {
	switch s {
	case InvitationPending:
		return true
	case InvitationExpired:
		return includeExpired
	default:
		return false
	}
}

type Invitation struct {
	ID             string
	CourseID       string
	CreatedBy      string
	InvitedEmail   string
	InvitedUserID  *string
	TokenHash      *string // HMAC of the raw token, never the token itself
	TokenExpiresAt *time.Time
	Status         InvitationStatus
	SentAt         *time.Time
	LastSentAt     *time.Time
	SendCount      int
	AcceptedAt     *time.Time
	RevokedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TokenExpired reports whether the attached token is unusable at now.
// An invitation without a token is treated as expired.
func (i Invitation) TokenExpired(now time.Time) bool {
	return i.TokenExpiresAt == nil || !now.Before(*i.TokenExpiresAt)
}
