package service

import (
	"testing"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "profile@example.com", domain.RoleStudent, false)

	_, err := f.settings.UpdateProfile(f.ctx, id, ProfileUpdate{})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.settings.UpdateProfile(f.ctx, id, ProfileUpdate{FullName: strPtr("")})
	require.ErrorIs(t, err, ErrValidation, "an empty name alone is not an update")

	u, err := f.settings.UpdateProfile(f.ctx, id, ProfileUpdate{FullName: strPtr(""), AvatarURL: strPtr(" https://cdn.example/a.png ")})
	require.NoError(t, err)
	require.Equal(t, "User profile@example.com", u.FullName)
	require.Equal(t, "https://cdn.example/a.png", *u.AvatarURL)

	u, err = f.settings.UpdateProfile(f.ctx, id, ProfileUpdate{FullName: strPtr(" Pat "), AvatarURL: strPtr("")})
	require.NoError(t, err)
	require.Equal(t, "Pat", u.FullName)
	require.Nil(t, u.AvatarURL)

	stored, err := f.store.Users().GetUserByID(f.ctx, id.UserID)
	require.NoError(t, err)
	require.Equal(t, "Pat", stored.FullName)
	require.Nil(t, stored.AvatarURL)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "change@example.com", domain.RoleStudent, true)

	_, err := f.settings.ChangePassword(f.ctx, id, testPassword, testPassword)
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.settings.ChangePassword(f.ctx, id, "", "new password")
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.settings.ChangePassword(f.ctx, id, "wrong password", "new password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// An outstanding reset token is superseded by the "wasn't you" token
	stale := f.issue(t, id.UserID, domain.TokenResetPassword)

	sent, err := f.settings.ChangePassword(f.ctx, id, testPassword, "new password")
	require.NoError(t, err)
	require.True(t, sent)

	stored, err := f.store.Users().GetUserByID(f.ctx, id.UserID)
	require.NoError(t, err)
	require.EqualValues(t, 1, stored.TokenVersion)

	_, err = f.tokens.Redeem(f.ctx, domain.TokenResetPassword, stale, "", nil)
	require.ErrorIs(t, err, ErrTokenInvalid)

	msg := f.outbox.last(t, notify.KindPasswordChanged, "change@example.com")
	require.NoError(t, f.auth.ResetPassword(f.ctx, tokenFromLink(t, msg), "recovered password"))
}

func TestChangePasswordReportsMailFailure(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "nomail@example.com", domain.RoleStudent, true)
	f.outbox.fail = true

	sent, err := f.settings.ChangePassword(f.ctx, id, testPassword, "new password")
	require.NoError(t, err)
	require.False(t, sent)
}

func TestAccountDeletion(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "leaving@example.com", domain.RoleStudent, true)

	_, err := f.settings.RequestAccountDeletion(f.ctx, id, "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	sent, err := f.settings.RequestAccountDeletion(f.ctx, id, testPassword)
	require.NoError(t, err)
	require.True(t, sent)
	otp := otpFromMessage(t, f.outbox.last(t, notify.KindDeleteAccountOTP, "leaving@example.com"))

	require.ErrorIs(t, f.settings.ConfirmAccountDeletion(f.ctx, id, ""), ErrValidation)
	require.ErrorIs(t, f.settings.ConfirmAccountDeletion(f.ctx, id, "12345"), ErrValidation)

	wrong := "000000"
	if otp == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, f.settings.ConfirmAccountDeletion(f.ctx, id, wrong), ErrTokenInvalid)

	require.NoError(t, f.settings.ConfirmAccountDeletion(f.ctx, id, " "+otp+" "))

	_, err = f.store.Users().GetUserByID(f.ctx, id.UserID)
	require.ErrorIs(t, err, store.ErrNotFound)

	tok, err := f.store.UserTokens().GetToken(f.ctx, domain.TokenDeleteAccountOTP, otp)
	require.NoError(t, err, "token rows outlive the account")
	require.Nil(t, tok.UserID)
	require.NotNil(t, tok.UsedAt)
}

func TestSecondDeletionRequestSupersedesFirst(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "twice@example.com", domain.RoleStudent, true)

	_, err := f.settings.RequestAccountDeletion(f.ctx, id, testPassword)
	require.NoError(t, err)
	first := otpFromMessage(t, f.outbox.last(t, notify.KindDeleteAccountOTP, "twice@example.com"))

	_, err = f.settings.RequestAccountDeletion(f.ctx, id, testPassword)
	require.NoError(t, err)
	second := otpFromMessage(t, f.outbox.last(t, notify.KindDeleteAccountOTP, "twice@example.com"))

	require.NotEqual(t, first, second, "stored codes are never reused")
	require.ErrorIs(t, f.settings.ConfirmAccountDeletion(f.ctx, id, first), ErrTokenInvalid)
	require.NoError(t, f.settings.ConfirmAccountDeletion(f.ctx, id, second))
}
