package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRedeemSucceedsAtMostOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "once@example.com", domain.RoleStudent, false)
	raw := f.issue(t, u.UserID, domain.TokenVerifyEmail)
	require.Len(t, raw, 43)

	tok, err := f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, raw, "", nil)
	require.NoError(t, err)
	require.Equal(t, u.UserID, *tok.UserID)
	require.NotNil(t, tok.UsedAt)

	for range 2 {
		_, err = f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, raw, "", nil)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}

	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TokenRedemptions.WithLabelValues("verify_email", "redeemed")))
	require.Equal(t, 2.0, testutil.ToFloat64(f.metrics.TokenRedemptions.WithLabelValues("verify_email", "used")))
}

func TestRedeemWrongTypeOrUnknownToken(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "types@example.com", domain.RoleStudent, false)
	raw := f.issue(t, u.UserID, domain.TokenVerifyEmail)

	_, err := f.tokens.Redeem(f.ctx, domain.TokenResetPassword, raw, "", nil)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, "nope", "", nil)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, "", "", nil)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRedeemAfterExpiryMarksTokenUsed(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "late@example.com", domain.RoleStudent, false)
	raw := f.issue(t, u.UserID, domain.TokenResetPassword)

	f.advance(domain.ResetPasswordTTL)

	applied := false
	_, err := f.tokens.Redeem(f.ctx, domain.TokenResetPassword, raw, "", func(store.Tx, domain.UserToken) error {
		applied = true
		return nil
	})
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.False(t, applied)

	stored, err := f.store.UserTokens().GetToken(f.ctx, domain.TokenResetPassword, raw)
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt, "expired token is closed on first use")
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TokenRedemptions.WithLabelValues("reset_password", "expired")))
}

func TestIssueSupersedesEarlierResetTokens(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "twice@example.com", domain.RoleStudent, false)

	t1 := f.issue(t, u.UserID, domain.TokenResetPassword)
	t2 := f.issue(t, u.UserID, domain.TokenResetPassword)
	require.NotEqual(t, t1, t2)

	_, err := f.tokens.Redeem(f.ctx, domain.TokenResetPassword, t1, "", nil)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.tokens.Redeem(f.ctx, domain.TokenResetPassword, t2, "", nil)
	require.NoError(t, err)
}

func TestIssueKeepsEarlierVerifyTokens(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "verify@example.com", domain.RoleStudent, false)

	t1 := f.issue(t, u.UserID, domain.TokenVerifyEmail)
	f.issue(t, u.UserID, domain.TokenVerifyEmail)

	_, err := f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, t1, "", nil)
	require.NoError(t, err)
}

func TestRedeemRollsBackWhenApplyFails(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "rollback@example.com", domain.RoleStudent, false)
	raw := f.issue(t, u.UserID, domain.TokenVerifyEmail)

	boom := errors.New("boom")
	_, err := f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, raw, "", func(store.Tx, domain.UserToken) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := f.store.UserTokens().GetToken(f.ctx, domain.TokenVerifyEmail, raw)
	require.NoError(t, err)
	require.Nil(t, stored.UsedAt, "consumption is rolled back with the side effect")

	_, err = f.tokens.Redeem(f.ctx, domain.TokenVerifyEmail, raw, "", nil)
	require.NoError(t, err)
}

func TestDeleteOTPIsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice@example.com", domain.RoleStudent, false)
	bob := f.user(t, "bob@example.com", domain.RoleStudent, false)

	otp := f.issue(t, alice.UserID, domain.TokenDeleteAccountOTP)
	require.Len(t, otp, domain.DeleteAccountOTPLength)

	_, err := f.tokens.Redeem(f.ctx, domain.TokenDeleteAccountOTP, otp, bob.UserID, nil)
	require.ErrorIs(t, err, ErrTokenInvalid)

	tok, err := f.tokens.Redeem(f.ctx, domain.TokenDeleteAccountOTP, otp, alice.UserID, nil)
	require.NoError(t, err)
	require.Equal(t, domain.TokenDeleteAccountOTP, tok.Type)
	require.True(t, tok.ExpiresAt.Equal(f.now.Add(10*time.Minute)))
}

func TestConcurrentRedeemSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "race@example.com", domain.RoleStudent, false)
	raw := f.issue(t, u.UserID, domain.TokenResetPassword)

	const workers = 16
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		applied   atomic.Int32
	)
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.tokens.Redeem(f.ctx, domain.TokenResetPassword, raw, "", func(store.Tx, domain.UserToken) error {
				applied.Add(1)
				return nil
			})
			if err == nil {
				successes.Add(1)
				return
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	require.EqualValues(t, 1, successes.Load())
	require.EqualValues(t, 1, applied.Load())
	for err := range errs {
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

// staleSnapshotStore makes InvalidateUnused miss tokens for the first misses
// calls, as a transaction racing another Issue does under read committed.
type staleSnapshotStore struct {
	store.Store
	misses int
}

func (s *staleSnapshotStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&staleSnapshotTx{baseTx: tx, parent: s})
	})
}

// baseTx names the embedded store.Tx so its promoted Tx method is not
// shadowed by a field called Tx.
type baseTx = store.Tx

type staleSnapshotTx struct {
	baseTx
	parent *staleSnapshotStore
}

func (t *staleSnapshotTx) UserTokens() store.UserTokens {
	return &staleSnapshotTokens{UserTokens: t.baseTx.UserTokens(), parent: t.parent}
}

type staleSnapshotTokens struct {
	store.UserTokens
	parent *staleSnapshotStore
}

func (r *staleSnapshotTokens) InvalidateUnused(ctx context.Context, userID string, typ domain.TokenType, now time.Time) (int64, error) {
	if r.parent.misses > 0 {
		r.parent.misses--
		return 0, nil
	}
	return r.UserTokens.InvalidateUnused(ctx, userID, typ, now)
}

func TestWithTxRetriesIssueThatLostARace(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "retry@example.com", domain.RoleStudent, false)
	winner := f.issue(t, u.UserID, domain.TokenResetPassword)

	racing := &staleSnapshotStore{Store: f.store, misses: 1}
	tokens := &TokenService{Store: racing, Metrics: f.metrics, Clock: f.tokens.Clock}

	var raw string
	attempts := 0
	err := tokens.WithTx(f.ctx, func(tx store.Tx) error {
		attempts++
		var err error
		raw, err = tokens.Issue(f.ctx, tx, u.UserID, domain.TokenResetPassword)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.NotEqual(t, winner, raw)

	_, err = f.tokens.Redeem(f.ctx, domain.TokenResetPassword, winner, "", nil)
	require.ErrorIs(t, err, ErrTokenInvalid, "the retry supersedes the earlier token")
	_, err = f.tokens.Redeem(f.ctx, domain.TokenResetPassword, raw, "", nil)
	require.NoError(t, err)
}

func TestWithTxGivesUpAfterRepeatedConflicts(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "stuck@example.com", domain.RoleStudent, false)
	f.issue(t, u.UserID, domain.TokenDeleteAccountOTP)

	racing := &staleSnapshotStore{Store: f.store, misses: maxIssueAttempts}
	tokens := &TokenService{Store: racing, Metrics: f.metrics, Clock: f.tokens.Clock}

	err := tokens.WithTx(f.ctx, func(tx store.Tx) error {
		_, err := tokens.Issue(f.ctx, tx, u.UserID, domain.TokenDeleteAccountOTP)
		return err
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	require.Zero(t, racing.misses)
}
