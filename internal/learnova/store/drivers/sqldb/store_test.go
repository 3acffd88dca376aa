package sqldb

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestRebind(t *testing.T) {
	q := `UPDATE t SET a = $1, b = $2 WHERE id = $3 AND x IN ($4, $5)`

	require.Equal(t, q, DialectPostgres.Rebind(q))
	require.Equal(t, `UPDATE t SET a = ?, b = ? WHERE id = ? AND x IN (?, ?)`, DialectSQLite.Rebind(q))
	require.Equal(t, "$2, $3, $4", placeholders(2, 3))
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"":         DialectSQLite,
		"sqlite":   DialectSQLite,
		"pgx":      DialectPostgres,
		"Postgres": DialectPostgres,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseDialect("mysql")
	require.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, newSQLiteStore(t))
}

// runStoreSuite exercises every repository against a migrated store. It is
// shared by the sqlite and postgres tests.
func runStoreSuite(t *testing.T, s *Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	newUser := func(t *testing.T, email string, role domain.SystemRole) domain.User {
		t.Helper()
		u := domain.User{
			ID:           idx.New().String(),
			Email:        email,
			FullName:     "User " + email,
			PasswordHash: "1$c2FsdA==$aGFzaA==",
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, s.Users().CreateUser(ctx, u))
		return u
	}

	t.Run("users", func(t *testing.T) {
		empty, err := s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)

		u := newUser(t, "alice@example.com", domain.RoleStudent)

		err = s.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Email: u.Email, FullName: "dup", PasswordHash: "x",
			Role: domain.RoleStudent, CreatedAt: now, UpdatedAt: now,
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Nil(t, got.AvatarURL)
		require.False(t, got.IsEmailVerified)
		require.EqualValues(t, 0, got.TokenVersion)
		require.True(t, got.CreatedAt.Equal(now))

		require.NoError(t, s.Users().MarkEmailVerified(ctx, u.ID, now))
		require.NoError(t, s.Users().BumpTokenVersion(ctx, u.ID, now))
		require.NoError(t, s.Users().BumpTokenVersion(ctx, u.ID, now))
		require.NoError(t, s.Users().UpdateRole(ctx, u.ID, domain.RoleInstructor, now))
		avatar := "https://cdn.example/a.png"
		require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "Alice A", &avatar, now))

		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.IsEmailVerified)
		require.EqualValues(t, 2, got.TokenVersion)
		require.Equal(t, domain.RoleInstructor, got.Role)
		require.Equal(t, "Alice A", got.FullName)
		require.Equal(t, avatar, *got.AvatarURL)

		_, err = s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().BumpTokenVersion(ctx, "missing", now), store.ErrNotFound)

		empty, err = s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("user tokens", func(t *testing.T) {
		u := newUser(t, "tokens@example.com", domain.RoleStudent)
		uid := u.ID

		t1 := domain.UserToken{
			ID: idx.New().String(), UserID: &uid, Type: domain.TokenResetPassword,
			Token: "reset-1", ExpiresAt: now.Add(time.Minute), CreatedAt: now,
		}
		t2 := t1
		t2.ID, t2.Token = idx.New().String(), "reset-2"
		require.NoError(t, s.UserTokens().CreateToken(ctx, t1))
		require.ErrorIs(t, s.UserTokens().CreateToken(ctx, t2), store.ErrAlreadyExists,
			"one unused reset token per user")

		dup := t1
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.UserTokens().CreateToken(ctx, dup), store.ErrAlreadyExists)

		got, err := s.UserTokens().GetToken(ctx, domain.TokenResetPassword, "reset-1")
		require.NoError(t, err)
		require.Equal(t, t1.ID, got.ID)
		require.Nil(t, got.UsedAt)
		require.True(t, got.ExpiresAt.Equal(t1.ExpiresAt))

		_, err = s.UserTokens().GetToken(ctx, domain.TokenVerifyEmail, "reset-1")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.UserTokens().GetUserToken(ctx, "someone-else", domain.TokenResetPassword, "reset-1")
		require.ErrorIs(t, err, store.ErrNotFound)

		used, err := s.UserTokens().MarkUsed(ctx, t1.ID, now)
		require.NoError(t, err)
		require.True(t, used)
		used, err = s.UserTokens().MarkUsed(ctx, t1.ID, now)
		require.NoError(t, err)
		require.False(t, used, "a token is consumed at most once")

		require.NoError(t, s.UserTokens().CreateToken(ctx, t2))
		n, err := s.UserTokens().InvalidateUnused(ctx, uid, domain.TokenResetPassword, now)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		stale := domain.UserToken{
			ID: idx.New().String(), UserID: &uid, Type: domain.TokenVerifyEmail,
			Token: "verify-stale", ExpiresAt: now.Add(-time.Second), CreatedAt: now.Add(-time.Hour),
		}
		require.NoError(t, s.UserTokens().CreateToken(ctx, stale))
		n, err = s.UserTokens().ExpireStale(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		require.NoError(t, s.Users().DeleteUser(ctx, uid))
		got, err = s.UserTokens().GetToken(ctx, domain.TokenVerifyEmail, "verify-stale")
		require.NoError(t, err)
		require.Nil(t, got.UserID, "tokens outlive their owner")
		require.NotNil(t, got.UsedAt)
	})

	t.Run("concurrent consume", func(t *testing.T) {
		u := newUser(t, "consume@example.com", domain.RoleStudent)
		uid := u.ID
		tok := domain.UserToken{
			ID: idx.New().String(), UserID: &uid, Type: domain.TokenResetPassword,
			Token: "reset-race", ExpiresAt: now.Add(time.Minute), CreatedAt: now,
		}
		require.NoError(t, s.UserTokens().CreateToken(ctx, tok))

		const workers = 8
		var (
			wg      sync.WaitGroup
			winners atomic.Int32
			failed  atomic.Int32
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.WithTx(ctx, func(tx store.Tx) error {
					ok, err := tx.UserTokens().MarkUsed(ctx, tok.ID, now)
					if ok {
						winners.Add(1)
					}
					return err
				})
				if err != nil {
					failed.Add(1)
				}
			}()
		}
		wg.Wait()

		require.Zero(t, failed.Load())
		require.EqualValues(t, 1, winners.Load())
	})

	t.Run("organizations and members", func(t *testing.T) {
		owner := newUser(t, "owner@example.com", domain.RoleOwner)
		bob := newUser(t, "bob@example.com", domain.RoleStudent)
		carol := newUser(t, "carol@example.com", domain.RoleStudent)

		org := domain.Organization{
			ID: idx.New().String(), Name: "Acme", Description: "Acme org", OwnerID: owner.ID,
			InviteCode: "a1b2c3", SubscriptionPlanID: domain.DefaultPlanID,
			SubscriptionStatus: "active", CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, s.Organizations().Create(ctx, org))

		clash := org
		clash.ID = idx.New().String()
		require.ErrorIs(t, s.Organizations().Create(ctx, clash), store.ErrAlreadyExists)

		got, err := s.Organizations().GetByInviteCode(ctx, "a1b2c3")
		require.NoError(t, err)
		require.Equal(t, org.ID, got.ID)

		owned, err := s.Organizations().ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, owned, 1)

		var memberIDs []string
		for _, u := range []domain.User{bob, carol} {
			m := domain.Membership{
				ID: idx.New().String(), OrganizationID: org.ID, UserID: u.ID,
				Status: domain.MembershipPending, Role: "member", CreatedAt: now, UpdatedAt: now,
			}
			require.NoError(t, s.Members().Create(ctx, m))
			memberIDs = append(memberIDs, m.ID)
		}

		dup := domain.Membership{
			ID: idx.New().String(), OrganizationID: org.ID, UserID: bob.ID,
			Status: domain.MembershipPending, Role: "member", CreatedAt: now, UpdatedAt: now,
		}
		require.ErrorIs(t, s.Members().Create(ctx, dup), store.ErrAlreadyExists)

		joined := now
		require.NoError(t, s.Members().UpdateMembershipStatus(ctx, memberIDs[0], domain.MembershipAccepted, &joined, now))
		require.NoError(t, s.Members().UpdateMembershipStatus(ctx, memberIDs[0], domain.MembershipSuspended, nil, now))
		later := now.Add(time.Hour)
		require.NoError(t, s.Members().UpdateMembershipStatus(ctx, memberIDs[0], domain.MembershipAccepted, &later, later))

		m, err := s.Members().GetMembership(ctx, memberIDs[0])
		require.NoError(t, err)
		require.Equal(t, domain.MembershipAccepted, m.Status)
		require.NotNil(t, m.JoinedAt)
		require.True(t, m.JoinedAt.Equal(joined), "joined_at is set once")

		m, err = s.Members().GetMembershipByUser(ctx, org.ID, carol.ID)
		require.NoError(t, err)
		require.Equal(t, memberIDs[1], m.ID)

		accepted, err := s.Members().ListMembers(ctx, org.ID, []domain.MembershipStatus{domain.MembershipAccepted, domain.MembershipSuspended})
		require.NoError(t, err)
		require.Len(t, accepted, 1)
		require.Equal(t, "bob@example.com", accepted[0].Email)
		require.Equal(t, domain.RoleStudent, accepted[0].SystemRole)

		pending, err := s.Members().ListMembers(ctx, org.ID, []domain.MembershipStatus{domain.MembershipPending})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.Equal(t, carol.ID, pending[0].UserID)
	})

	t.Run("courses invitations and enrollments", func(t *testing.T) {
		instructor := newUser(t, "teach@example.com", domain.RoleInstructor)
		student := newUser(t, "learn@example.com", domain.RoleStudent)

		category := "math"
		course := domain.Course{
			ID: idx.New().String(), CreatedBy: instructor.ID, Title: "Algebra",
			CourseType: domain.CourseIndividual, Visibility: domain.VisibilityPrivate,
			Category: &category, Tags: []string{"a", "b"}, Status: domain.CourseStatusDraft,
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, s.Courses().Create(ctx, course))

		got, err := s.Courses().GetByID(ctx, course.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, got.Tags)
		require.Empty(t, got.LearningOutcomes)
		require.Nil(t, got.OrganizationID)
		require.Equal(t, "math", *got.Category)

		inv := domain.Invitation{
			ID: idx.New().String(), CourseID: course.ID, CreatedBy: instructor.ID,
			InvitedEmail: student.Email, Status: domain.InvitationPending,
			CreatedAt: now, UpdatedAt: now,
		}
		inserted, err := s.Invitations().Create(ctx, inv)
		require.NoError(t, err)
		require.True(t, inserted)

		again := inv
		again.ID = idx.New().String()
		inserted, err = s.Invitations().Create(ctx, again)
		require.NoError(t, err)
		require.False(t, inserted, "(course, email) is unique")

		emails, err := s.Invitations().ListInvitedEmails(ctx, course.ID)
		require.NoError(t, err)
		require.Equal(t, []string{student.Email}, emails)

		first := now
		require.NoError(t, s.Invitations().RotateToken(ctx, inv.ID, "hash-1", first.Add(time.Hour), first))
		second := now.Add(time.Minute)
		require.NoError(t, s.Invitations().RotateToken(ctx, inv.ID, "hash-2", second.Add(time.Hour), second))

		_, err = s.Invitations().GetByTokenHash(ctx, "hash-1")
		require.ErrorIs(t, err, store.ErrNotFound)

		rotated, err := s.Invitations().GetByTokenHash(ctx, "hash-2")
		require.NoError(t, err)
		require.Equal(t, 2, rotated.SendCount)
		require.True(t, rotated.SentAt.Equal(first))
		require.True(t, rotated.LastSentAt.Equal(second))

		n, err := s.Invitations().ExpireStale(ctx, second.Add(2*time.Hour))
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		expired, err := s.Invitations().List(ctx, course.ID, []domain.InvitationStatus{domain.InvitationExpired})
		require.NoError(t, err)
		require.Len(t, expired, 1)

		require.NoError(t, s.Invitations().MarkAccepted(ctx, inv.ID, student.ID, now))
		accepted, err := s.Invitations().GetByEmail(ctx, course.ID, student.Email)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, accepted.Status)
		require.Equal(t, student.ID, *accepted.InvitedUserID)

		other := domain.Invitation{
			ID: idx.New().String(), CourseID: course.ID, CreatedBy: instructor.ID,
			InvitedEmail: "other@example.com", Status: domain.InvitationPending,
			CreatedAt: now.Add(time.Second), UpdatedAt: now,
		}
		_, err = s.Invitations().Create(ctx, other)
		require.NoError(t, err)
		require.NoError(t, s.Invitations().RotateToken(ctx, other.ID, "hash-3", now.Add(time.Hour), now))
		require.NoError(t, s.Invitations().Revoke(ctx, other.ID, now))
		revoked, err := s.Invitations().GetByID(ctx, other.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationRevoked, revoked.Status)
		require.Nil(t, revoked.TokenHash)
		require.NotNil(t, revoked.RevokedAt)

		all, err := s.Invitations().List(ctx, course.ID, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, other.ID, all[0].ID, "newest first")

		e := domain.Enrollment{
			ID: idx.New().String(), CourseID: course.ID, StudentID: student.ID,
			Status: domain.EnrollmentActive, EnrollmentType: domain.EnrollmentInvited, EnrolledAt: now,
		}
		id, created, err := s.Enrollments().Enroll(ctx, e)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, e.ID, id)

		e2 := e
		e2.ID = idx.New().String()
		id, created, err = s.Enrollments().Enroll(ctx, e2)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, e.ID, id)

		require.NoError(t, s.Courses().IncrementEnrollmentCount(ctx, course.ID, now))
		enrolled, err := s.Courses().ListByStudent(ctx, student.ID)
		require.NoError(t, err)
		require.Len(t, enrolled, 1)
		require.Equal(t, 1, enrolled[0].EnrollmentCount)

		created2, err := s.Courses().ListByCreator(ctx, instructor.ID)
		require.NoError(t, err)
		require.Len(t, created2, 1)
	})

	t.Run("transactions roll back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			u := domain.User{
				ID: idx.New().String(), Email: "tx@example.com", FullName: "Tx", PasswordHash: "x",
				Role: domain.RoleStudent, CreatedAt: now, UpdatedAt: now,
			}
			require.NoError(t, tx.Users().CreateUser(ctx, u))
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByEmail(ctx, "tx@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.Error(t, err, "nested transactions are refused")
	})
}
