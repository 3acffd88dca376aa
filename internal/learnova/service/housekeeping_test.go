package service

import (
	"testing"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "sweep@example.com", domain.RoleStudent, false)
	instructor := f.user(t, "inst@example.com", domain.RoleInstructor, false)
	course := f.privateCourse(t, instructor, "Go 101")

	stale := f.issue(t, u.UserID, domain.TokenResetPassword)
	_, err := f.invites.Upload(f.ctx, instructor, course.ID, nil, []string{"late@example.com"})
	require.NoError(t, err)

	f.advance(8 * 24 * time.Hour)
	live := f.issue(t, u.UserID, domain.TokenVerifyEmail)

	hk := NewHousekeepingService(f.store, nil, 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Metrics = f.metrics
	hk.Clock = func() time.Time { return f.now }
	hk.Sweep(f.ctx)

	tok, err := f.store.UserTokens().GetToken(f.ctx, domain.TokenResetPassword, stale)
	require.NoError(t, err)
	require.NotNil(t, tok.UsedAt)

	tok, err = f.store.UserTokens().GetToken(f.ctx, domain.TokenVerifyEmail, live)
	require.NoError(t, err)
	require.Nil(t, tok.UsedAt, "unexpired tokens are untouched")

	inv, err := f.store.Invitations().GetByEmail(f.ctx, course.ID, "late@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, inv.Status)

	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HousekeepingRows.WithLabelValues("course_invitations")))
}

func TestHousekeepingStartStop(t *testing.T) {
	f := newFixture(t)
	hk := NewHousekeepingService(f.store, nil, time.Millisecond)
	hk.Start()
	time.Sleep(5 * time.Millisecond)
	hk.Stop()
}
