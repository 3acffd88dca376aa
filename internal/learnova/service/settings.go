package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/slogx"
)

// SettingsService covers the caller's own account.
type SettingsService struct {
	Store  store.Store
	Tokens *TokenService
	Mailer *Mailer
	Clock  Clock
}

// ProfileUpdate holds optional profile changes. A nil field is left alone.
type ProfileUpdate struct {
	FullName  *string
	AvatarURL *string
}

// UpdateProfile applies the given fields. An empty full name is ignored and
// an empty avatar URL clears the avatar.
func (s *SettingsService) UpdateProfile(ctx context.Context, id domain.Identity, in ProfileUpdate) (domain.User, error) {
	var fullName *string
	if in.FullName != nil {
		if v := strings.TrimSpace(*in.FullName); v != "" {
			fullName = &v
		}
	}
	if fullName == nil && in.AvatarURL == nil {
		return domain.User{}, invalidf("No updatable fields provided")
	}

	now := s.Clock.now()
	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByID(ctx, id.UserID)
		if err != nil {
			return err
		}

		if fullName != nil {
			user.FullName = *fullName
		}
		if in.AvatarURL != nil {
			if v := strings.TrimSpace(*in.AvatarURL); v != "" {
				user.AvatarURL = &v
			} else {
				user.AvatarURL = nil
			}
		}
		user.UpdatedAt = now

		return tx.Users().UpdateProfile(ctx, user.ID, user.FullName, user.AvatarURL, now)
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, describe(ErrNotFound, "User not found")
	}
	return user, err
}

// ChangePassword replaces the caller's password, revokes their access
// tokens and mails a "wasn't you" reset link. It reports whether that
// email went out.
func (s *SettingsService) ChangePassword(ctx context.Context, id domain.Identity, current, next string) (bool, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate input
	if current == "" || next == "" {
		return false, invalidf("Missing password fields")
	}
	if current == next {
		return false, invalidf("New password must be different")
	}
	if err := validatePassword(next); err != nil {
		return false, err
	}

	// 2. Verify the current password
	user, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, describe(ErrNotAuthenticated, "User no longer exists")
		}
		return false, err
	}
	if cryptox.VerifyPassword(current, user.PasswordHash) != nil {
		l.Warn("password change with wrong current password", slog.String("user_id", user.ID))
		return false, describe(ErrInvalidCredentials, "Invalid current password")
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return false, err
	}

	// 3. New hash, revocation and recovery token commit together
	now := s.Clock.now()
	var resetToken string
	err = s.Tokens.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash, now); err != nil {
			return err
		}
		if err := tx.Users().BumpTokenVersion(ctx, user.ID, now); err != nil {
			return err
		}
		var err error
		resetToken, err = s.Tokens.Issue(ctx, tx, user.ID, domain.TokenResetPassword)
		return err
	})
	if err != nil {
		return false, err
	}

	l.Info("password changed", slog.String("user_id", user.ID))

	// 4. Notify
	res := s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
		return r.PasswordChanged(user.Email, user.FullName, s.Mailer.Links.ResetPassword(resetToken))
	})
	return res.Delivered, nil
}

// RequestAccountDeletion mails a one-time code that confirms deletion. It
// reports whether the email went out.
func (s *SettingsService) RequestAccountDeletion(ctx context.Context, id domain.Identity, currentPassword string) (bool, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, describe(ErrNotAuthenticated, "User no longer exists")
		}
		return false, err
	}
	if currentPassword == "" || cryptox.VerifyPassword(currentPassword, user.PasswordHash) != nil {
		l.Warn("account deletion request with wrong password", slog.String("user_id", user.ID))
		return false, describe(ErrInvalidCredentials, "Invalid current password")
	}

	var otp string
	err = s.Tokens.WithTx(ctx, func(tx store.Tx) error {
		var err error
		otp, err = s.Tokens.Issue(ctx, tx, user.ID, domain.TokenDeleteAccountOTP)
		return err
	})
	if err != nil {
		return false, err
	}

	l.Info("account deletion requested", slog.String("user_id", user.ID))

	res := s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
		return r.DeleteAccountOTP(user.Email, user.FullName, otp)
	})
	return res.Delivered, nil
}

// ConfirmAccountDeletion redeems the caller's OTP and deletes the account.
// The token row outlives the user with a null owner.
func (s *SettingsService) ConfirmAccountDeletion(ctx context.Context, id domain.Identity, otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return invalidf("OTP is required")
	}
	if len(otp) != domain.DeleteAccountOTPLength {
		return invalidf("Invalid OTP format")
	}

	now := s.Clock.now()
	_, err := s.Tokens.Redeem(ctx, domain.TokenDeleteAccountOTP, otp, id.UserID, func(tx store.Tx, _ domain.UserToken) error {
		if err := tx.Users().BumpTokenVersion(ctx, id.UserID, now); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, id.UserID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("account deleted", slog.String("user_id", id.UserID))
	return nil
}
