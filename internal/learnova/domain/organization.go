package domain

import "time"

// DefaultPlanID is the subscription plan new organizations start on.
const DefaultPlanID = "default"

type Organization struct {
	ID                 string
	Name               string
	Description        string
	LogoURL            *string
	OwnerID            string
	InviteCode         string
	SubscriptionPlanID string
	SubscriptionStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MembershipStatus is the state of a user's membership in an organization.
type MembershipStatus string

const (
	MembershipPending   MembershipStatus = "pending"
	MembershipAccepted  MembershipStatus = "accepted"
	MembershipSuspended MembershipStatus = "suspended"
	MembershipDeclined  MembershipStatus = "declinate"
)

var membershipTransitions = map[MembershipStatus][]MembershipStatus{
	MembershipPending:   {MembershipAccepted, MembershipDeclined},
	MembershipAccepted:  {MembershipSuspended},
	MembershipSuspended: {MembershipAccepted},
	MembershipDeclined:  nil,
}

// ParseMembershipStatus returns the status named by s.
func ParseMembershipStatus(s string) (MembershipStatus, bool) {
	st := MembershipStatus(s)
	_, ok := membershipTransitions[st]
	return st, ok
}

// CanTransition reports whether from -> to is allowed. Self-transitions are
// not part of the table; callers treat them as no-ops.
func (from MembershipStatus) CanTransition(to MembershipStatus) bool {
	for _, next := range membershipTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to and returns a *TransitionError if the
// table forbids it.
func (from MembershipStatus) Transition(to MembershipStatus) error {
	if from == to || from.CanTransition(to) {
		return nil
	}
	return &TransitionError{From: string(from), To: string(to)}
}

type Membership struct {
	ID             string
	OrganizationID string
	UserID         string
	Status         MembershipStatus
	Role           string
	JoinedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MemberView is a membership joined with the member's profile.
type MemberView struct {
	Membership
	Email      string
	FullName   string
	AvatarURL  *string
	SystemRole SystemRole
}
