package store

import (
	"context"
	"errors"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// Repositories hang off the Store so a transaction scoped Store hands out
// repositories bound to the same transaction and nested transactions are
// impossible to start by accident.
type Store interface {
	Users() Users
	UserTokens() UserTokens
	Organizations() Organizations
	Members() Members
	Courses() Courses
	Invitations() Invitations
	Enrollments() Enrollments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Repositories
	// used inside fn must come from the tx argument.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalized address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateProfile sets full_name and avatar_url and bumps updated_at.
	UpdateProfile(ctx context.Context, userID, fullName string, avatarURL *string, now time.Time) error

	UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error
	MarkEmailVerified(ctx context.Context, userID string, now time.Time) error

	// BumpTokenVersion increments token_version, revoking every bearer token
	// issued before the call.
	BumpTokenVersion(ctx context.Context, userID string, now time.Time) error

	UpdateRole(ctx context.Context, userID string, role domain.SystemRole, now time.Time) error

	// DeleteUser removes the row; the schema cascades to owned rows and
	// nulls user_tokens.user_id.
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type UserTokens interface {
	CreateToken(ctx context.Context, t domain.UserToken) error

	// GetToken looks a token up by its exact value and type.
	GetToken(ctx context.Context, typ domain.TokenType, token string) (domain.UserToken, error)

	// GetUserToken is GetToken scoped to one owner.
	GetUserToken(ctx context.Context, userID string, typ domain.TokenType, token string) (domain.UserToken, error)

	// MarkUsed sets used_at only if the token is still unused and reports
	// whether this call consumed it.
	MarkUsed(ctx context.Context, id string, now time.Time) (bool, error)

	// InvalidateUnused marks every unused token of typ for the user as used.
	InvalidateUnused(ctx context.Context, userID string, typ domain.TokenType, now time.Time) (int64, error)

	// ExpireStale marks every unused token past its expiry as used.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type Organizations interface {
	// Create inserts an organization. A duplicate invite code yields ErrAlreadyExists.
	Create(ctx context.Context, o domain.Organization) error
	GetByID(ctx context.Context, id string) (domain.Organization, error)
	GetByInviteCode(ctx context.Context, code string) (domain.Organization, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error)
}

type Members interface {
	Create(ctx context.Context, m domain.Membership) error

	// GetMembership returns a membership by its own id.
	GetMembership(ctx context.Context, id string) (domain.Membership, error)

	GetMembershipByUser(ctx context.Context, orgID, userID string) (domain.Membership, error)

	// UpdateMembershipStatus sets status. When joinedAt is non-nil it is only
	// written if the membership has never been joined before.
	UpdateMembershipStatus(ctx context.Context, id string, status domain.MembershipStatus, joinedAt *time.Time, now time.Time) error

	// ListMembers returns the organization's members in the given statuses
	// joined with their profiles, ordered by user id.
	ListMembers(ctx context.Context, orgID string, statuses []domain.MembershipStatus) ([]domain.MemberView, error)
}

type Courses interface {
	Create(ctx context.Context, c domain.Course) error
	GetByID(ctx context.Context, id string) (domain.Course, error)

	// ListByCreator returns courses the user created, newest first.
	ListByCreator(ctx context.Context, userID string) ([]domain.Course, error)

	// ListByStudent returns courses the user is enrolled in, newest enrollment first.
	ListByStudent(ctx context.Context, userID string) ([]domain.Course, error)

	IncrementEnrollmentCount(ctx context.Context, courseID string, now time.Time) error
}

type Invitations interface {
	// Create inserts an invitation unless (course_id, invited_email) already
	// exists, reporting whether a row was written.
	Create(ctx context.Context, inv domain.Invitation) (bool, error)

	// ListInvitedEmails returns every invited email for the course.
	ListInvitedEmails(ctx context.Context, courseID string) ([]string, error)

	GetByID(ctx context.Context, id string) (domain.Invitation, error)
	GetByEmail(ctx context.Context, courseID, email string) (domain.Invitation, error)
	GetByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// List returns the course's invitations, newest first. A nil statuses
	// slice means every status.
	List(ctx context.Context, courseID string, statuses []domain.InvitationStatus) ([]domain.Invitation, error)

	// RotateToken attaches a fresh token and marks the invitation sent.
	RotateToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) error

	MarkExpired(ctx context.Context, id string, now time.Time) error
	MarkAccepted(ctx context.Context, id, userID string, now time.Time) error
	Revoke(ctx context.Context, id string, now time.Time) error

	// ExpireStale flips pending invitations whose token expired to expired.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type Enrollments interface {
	// Enroll inserts an enrollment unless (student, course) exists. It returns
	// the enrollment id either way and whether this call created it.
	Enroll(ctx context.Context, e domain.Enrollment) (string, bool, error)

	GetEnrollment(ctx context.Context, courseID, studentID string) (domain.Enrollment, error)
}
