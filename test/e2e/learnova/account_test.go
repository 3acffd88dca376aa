package learnova_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

// TestLoginRequiresVerifiedEmail verifies unverified accounts cannot log in.
func TestLoginRequiresVerifiedEmail(t *testing.T) {
	p := setupPlatform(t)
	ctx := t.Context()

	_, err := p.client.Register(ctx, learnovasdk.RegisterRequest{
		FullName: "Una Verified",
		Email:    "una@learnova.test",
		Password: "UnaPass1234",
	})
	require.NoError(t, err)

	_, err = p.client.Login(ctx, "una@learnova.test", "UnaPass1234")
	requireCode(t, err, http.StatusForbidden, learnovasdk.ErrorCodeEmailNotVerified)

	_, err = p.client.Login(ctx, "una@learnova.test", "wrong-password")
	requireCode(t, err, http.StatusUnauthorized, learnovasdk.ErrorCodeInvalidCredentials)
}

// TestPasswordResetRevokesSessions verifies a reset invalidates old tokens.
func TestPasswordResetRevokesSessions(t *testing.T) {
	p := setupPlatform(t)
	ctx := t.Context()

	session := p.registerVerified(t, "rita@learnova.test", "Rita Reset", "RitaPass1234", "")

	require.NoError(t, p.client.ForgotPassword(ctx, "rita@learnova.test"))
	// Unknown addresses get the same answer
	require.NoError(t, p.client.ForgotPassword(ctx, "nobody@learnova.test"))

	token := linkToken(t, p.mail.last(t, "rita@learnova.test", notify.KindResetPassword))
	require.NoError(t, p.client.ResetPassword(ctx, token, "RitaNewPass99"))

	_, err := session.Me(ctx)
	requireCode(t, err, http.StatusUnauthorized, learnovasdk.ErrorCodeTokenRevoked)

	// Reset links are single use
	err = p.client.ResetPassword(ctx, token, "AnotherPass99")
	requireCode(t, err, http.StatusBadRequest, learnovasdk.ErrorCodeInvalidToken)

	fresh, err := p.client.Login(ctx, "rita@learnova.test", "RitaNewPass99")
	require.NoError(t, err)
	me, err := fresh.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "Rita Reset", me.FullName)
}

// TestSettingsAndAccountDeletion covers profile edits and the OTP deletion flow.
func TestSettingsAndAccountDeletion(t *testing.T) {
	p := setupPlatform(t)
	ctx := t.Context()

	session := p.registerVerified(t, "dan@learnova.test", "Dan Delete", "DanPass1234", "")

	name := "Daniel Delete"
	updated, err := session.UpdateProfile(ctx, learnovasdk.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.FullName)

	_, err = session.RequestAccountDeletion(ctx, "wrong-password")
	requireCode(t, err, http.StatusUnauthorized, learnovasdk.ErrorCodeInvalidCredentials)

	resp, err := session.RequestAccountDeletion(ctx, "DanPass1234")
	require.NoError(t, err)
	require.True(t, resp.EmailSent)

	otp := otpCode(t, p.mail.last(t, "dan@learnova.test", notify.KindDeleteAccountOTP))
	require.NoError(t, session.ConfirmAccountDeletion(ctx, otp))

	_, err = session.Me(ctx)
	require.Error(t, err)

	_, err = p.client.Login(ctx, "dan@learnova.test", "DanPass1234")
	requireCode(t, err, http.StatusUnauthorized, learnovasdk.ErrorCodeInvalidCredentials)
}

// TestLoginRateLimitSharedThroughRedis verifies repeated failures for one
// email are throttled.
func TestLoginRateLimitSharedThroughRedis(t *testing.T) {
	p := setupPlatform(t)
	ctx := t.Context()

	var lastErr error
	for range 10 {
		_, lastErr = p.client.Login(ctx, "target@learnova.test", "guess-password")
		if learnovasdk.IsCode(lastErr, learnovasdk.ErrorCodeRateLimited) {
			break
		}
		requireCode(t, lastErr, http.StatusUnauthorized, learnovasdk.ErrorCodeInvalidCredentials)
	}
	requireCode(t, lastErr, http.StatusTooManyRequests, learnovasdk.ErrorCodeRateLimited)

	// A different email from the same address is unaffected
	_, err := p.client.Login(ctx, "other@learnova.test", "guess-password")
	requireCode(t, err, http.StatusUnauthorized, learnovasdk.ErrorCodeInvalidCredentials)
}
