package service

import (
	"testing"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/stretchr/testify/require"
)

func TestRegisterVerifyLogin(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register(f.ctx, RegisterInput{
		FullName: "Alice",
		Email:    "  Alice@Example.COM ",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, domain.RoleStudent, user.Role)
	require.False(t, user.IsEmailVerified)

	// Unverified accounts cannot log in
	_, err = f.auth.Login(f.ctx, "alice@example.com", testPassword)
	require.ErrorIs(t, err, ErrNotVerified)

	msg := f.outbox.last(t, notify.KindVerifyEmail, "alice@example.com")
	require.Contains(t, msg.Text, "https://api.example/v1/auth/verify-email?token=")
	token := tokenFromLink(t, msg)

	require.NoError(t, f.auth.VerifyEmail(f.ctx, token))
	require.ErrorIs(t, f.auth.VerifyEmail(f.ctx, token), ErrTokenInvalid)

	res, err := f.auth.Login(f.ctx, "ALICE@example.com", testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.EqualValues(t, 3600, res.ExpiresIn)
	require.Equal(t, user.ID, res.User.ID)

	id, err := f.auth.Authenticate(f.ctx, res.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, id.UserID)
	require.True(t, id.Verified)
	require.Equal(t, domain.RoleStudent, id.Role)

	me, err := f.auth.Me(f.ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Alice", me.FullName)
}

func TestRegisterRejections(t *testing.T) {
	f := newFixture(t)
	f.user(t, "taken@example.com", domain.RoleStudent, false)

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"duplicate email", RegisterInput{FullName: "A", Email: "TAKEN@example.com", Password: testPassword}, ErrConflict},
		{"short password", RegisterInput{FullName: "A", Email: "a@example.com", Password: "short"}, ErrValidation},
		{"short multibyte password", RegisterInput{FullName: "A", Email: "a@example.com", Password: "pässwö"}, ErrValidation},
		{"bad email", RegisterInput{FullName: "A", Email: "not-an-email", Password: testPassword}, ErrValidation},
		{"missing name", RegisterInput{FullName: " ", Email: "a@example.com", Password: testPassword}, ErrValidation},
		{"unknown invite code", RegisterInput{FullName: "A", Email: "a@example.com", Password: testPassword, InviteCode: "zzzzzz"}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(f.ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.store.Users().GetUserByEmail(f.ctx, "a@example.com")
	require.Error(t, err, "no rejected registration leaves a user behind")
	require.Zero(t, f.outbox.count(notify.KindVerifyEmail))
}

func TestRegisterWithInviteCodeCreatesPendingMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@example.com", domain.RoleOwner, false)
	org, err := f.orgs.CreateOrganization(f.ctx, owner, CreateOrganizationInput{Name: "Acme", Description: "School"})
	require.NoError(t, err)

	user, err := f.auth.Register(f.ctx, RegisterInput{
		FullName:   "Bob",
		Email:      "bob@example.com",
		Password:   testPassword,
		InviteCode: org.InviteCode,
	})
	require.NoError(t, err)

	m, err := f.store.Members().GetMembershipByUser(f.ctx, org.ID, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MembershipPending, m.Status)
	require.Nil(t, m.JoinedAt)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	f := newFixture(t)
	f.outbox.fail = true

	_, err := f.auth.Register(f.ctx, RegisterInput{FullName: "C", Email: "c@example.com", Password: testPassword})
	require.NoError(t, err)
	require.Equal(t, 1, f.outbox.count(notify.KindVerifyEmail))
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	f.user(t, "dana@example.com", domain.RoleStudent, true)

	_, err := f.auth.Login(f.ctx, "nobody@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(f.ctx, "dana@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, "Invalid credentials", Description(err))
}

func TestResendVerification(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(f.ctx, RegisterInput{FullName: "E", Email: "e@example.com", Password: testPassword})
	require.NoError(t, err)
	first := tokenFromLink(t, f.outbox.last(t, notify.KindVerifyEmail, "e@example.com"))

	require.NoError(t, f.auth.ResendVerification(f.ctx, "e@example.com"))
	second := tokenFromLink(t, f.outbox.last(t, notify.KindVerifyEmail, "e@example.com"))
	require.NotEqual(t, first, second)

	require.ErrorIs(t, f.auth.VerifyEmail(f.ctx, first), ErrTokenInvalid)
	require.NoError(t, f.auth.VerifyEmail(f.ctx, second))

	// Verified and unknown accounts look the same to the caller
	require.NoError(t, f.auth.ResendVerification(f.ctx, "e@example.com"))
	require.NoError(t, f.auth.ResendVerification(f.ctx, "ghost@example.com"))
	require.Equal(t, 2, f.outbox.count(notify.KindVerifyEmail))
}

func TestForgotAndResetPasswordRevokesSessions(t *testing.T) {
	f := newFixture(t)
	f.user(t, "frank@example.com", domain.RoleStudent, true)

	login, err := f.auth.Login(f.ctx, "frank@example.com", testPassword)
	require.NoError(t, err)

	// Unknown emails get the same outcome and no mail
	require.NoError(t, f.auth.ForgotPassword(f.ctx, "ghost@example.com"))
	require.Zero(t, f.outbox.count(notify.KindResetPassword))

	require.NoError(t, f.auth.ForgotPassword(f.ctx, "Frank@example.com"))
	msg := f.outbox.last(t, notify.KindResetPassword, "frank@example.com")
	require.Contains(t, msg.Text, "https://app.example/#/reset-password?token=")
	token := tokenFromLink(t, msg)

	require.ErrorIs(t, f.auth.ResetPassword(f.ctx, token, "short"), ErrValidation)
	require.NoError(t, f.auth.ResetPassword(f.ctx, token, "brand new password"))
	require.ErrorIs(t, f.auth.ResetPassword(f.ctx, token, "another password"), ErrTokenInvalid)

	_, err = f.auth.Authenticate(f.ctx, login.AccessToken)
	require.ErrorIs(t, err, ErrTokenRevoked)

	_, err = f.auth.Login(f.ctx, "frank@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(f.ctx, "frank@example.com", "brand new password")
	require.NoError(t, err)
}

func TestAuthenticateRejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Authenticate(f.ctx, "garbage")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	id := f.user(t, "gone@example.com", domain.RoleStudent, true)
	login, err := f.auth.Login(f.ctx, "gone@example.com", testPassword)
	require.NoError(t, err)
	require.NoError(t, f.store.Users().DeleteUser(f.ctx, id.UserID))

	_, err = f.auth.Authenticate(f.ctx, login.AccessToken)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestValidatePasswordCountsCharacters(t *testing.T) {
	require.ErrorIs(t, validatePassword("äöüäöü"), ErrValidation, "six characters in twelve bytes")
	require.NoError(t, validatePassword("pässwörd"))
}
