package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/notify"
	"github.com/learnova/learnova/internal/learnova/roster"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/jwtx"
	"github.com/learnova/learnova/pkg/slogx"
)

// MinPasswordLength applies to every password a user chooses.
const MinPasswordLength = 8

type AuthService struct {
	Store    store.Store
	Tokens   *TokenService
	Mailer   *Mailer
	Signer   jwtx.Signer
	Verifier jwtx.Verifier

	Issuer    string
	AccessTTL time.Duration
	Clock     Clock
}

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	InviteCode string
}

// LoginResult is a freshly minted access token and the profile it belongs to.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
	User        domain.User
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalidf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// Register creates an unverified student, an optional pending membership in
// the organization owning the invite code, and a verification token. The
// verification link is mailed after commit.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	// 1. Validate input
	email := domain.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	inviteCode := strings.TrimSpace(in.InviteCode)
	if fullName == "" {
		return domain.User{}, invalidf("full_name is required")
	}
	if !roster.LooksLikeEmail(email) {
		return domain.User{}, invalidf("a valid email is required")
	}
	if err := validatePassword(in.Password); err != nil {
		return domain.User{}, err
	}

	// 2. Hash outside the transaction, it is the slow part
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. User, membership and verification token commit together
	var verifyToken string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return describe(ErrConflict, "Email already exists")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		var (
			org domain.Organization
			err error
		)
		if inviteCode != "" {
			org, err = tx.Organizations().GetByInviteCode(ctx, inviteCode)
			if errors.Is(err, store.ErrNotFound) {
				return invalidf("Invalid invite code")
			}
			if err != nil {
				return err
			}
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return describe(ErrConflict, "Email already exists")
			}
			return err
		}

		if inviteCode != "" {
			m := domain.Membership{
				ID:             idx.NewAt(now).String(),
				OrganizationID: org.ID,
				UserID:         user.ID,
				Status:         domain.MembershipPending,
				Role:           "member",
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.Members().Create(ctx, m); err != nil {
				return err
			}
		}

		verifyToken, err = s.Tokens.Issue(ctx, tx, user.ID, domain.TokenVerifyEmail)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user registered",
		slog.String("user_id", user.ID),
		slog.Bool("with_invite_code", inviteCode != ""),
	)

	// 4. Best effort delivery
	s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
		return r.VerifyEmail(user.Email, s.Mailer.Links.VerifyEmail(verifyToken))
	})

	return user, nil
}

// VerifyEmail redeems a verification token and marks its owner verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	now := s.Clock.now()
	_, err := s.Tokens.Redeem(ctx, domain.TokenVerifyEmail, strings.TrimSpace(token), "", func(tx store.Tx, tok domain.UserToken) error {
		if tok.UserID == nil {
			return ErrTokenInvalid
		}
		err := tx.Users().MarkEmailVerified(ctx, *tok.UserID, now)
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenInvalid
		}
		return err
	})
	return err
}

// ResendVerification mails a new verification link to an unverified
// account. The caller sees the same outcome whether or not one exists.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	var (
		user  domain.User
		token string
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user.IsEmailVerified {
			return nil
		}
		if _, err := tx.UserTokens().InvalidateUnused(ctx, user.ID, domain.TokenVerifyEmail, s.Clock.now()); err != nil {
			return err
		}
		token, err = s.Tokens.Issue(ctx, tx, user.ID, domain.TokenVerifyEmail)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		l.Debug("verification resend for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
		return r.VerifyEmail(user.Email, s.Mailer.Links.VerifyEmail(token))
	})
	return nil
}

// Login checks credentials and mints an access token bound to the user's
// current token_version.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	user, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login with unknown email")
			return LoginResult{}, describe(ErrInvalidCredentials, "Invalid credentials")
		}
		return LoginResult{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		l.Info("login with wrong password", slog.String("user_id", user.ID))
		return LoginResult{}, describe(ErrInvalidCredentials, "Invalid credentials")
	}

	if !user.IsEmailVerified {
		return LoginResult{}, describe(ErrNotVerified, "Email not verified")
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	claims := jwtx.NewAccessClaims(user.ID, user.TokenVersion, string(user.Role), user.Email, ttl, s.Issuer, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign access token", slog.Any("error", err))
		return LoginResult{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(ttl / time.Second),
		User:        user,
	}, nil
}

// ForgotPassword mails a reset link when the account exists. Older unused
// reset tokens stop working.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	var token string
	err := s.Tokens.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		token, err = s.Tokens.Issue(ctx, tx, user.ID, domain.TokenResetPassword)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		l.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
		return r.ResetPassword(email, s.Mailer.Links.ResetPassword(token))
	})
	return nil
}

// ResetPassword redeems a reset token, stores the new password and revokes
// every access token issued so far.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := s.Clock.now()
	tok, err := s.Tokens.Redeem(ctx, domain.TokenResetPassword, strings.TrimSpace(token), "", func(tx store.Tx, tok domain.UserToken) error {
		if tok.UserID == nil {
			return ErrTokenInvalid
		}
		if err := tx.Users().UpdatePasswordHash(ctx, *tok.UserID, hash, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenInvalid
			}
			return err
		}
		return tx.Users().BumpTokenVersion(ctx, *tok.UserID, now)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", *tok.UserID))
	return nil
}

// Authenticate resolves a raw bearer token into the caller's Identity. The
// live user row is authoritative: a deleted user, a bumped token_version or
// a lost verification all reject the token.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(bearer)
	if err != nil {
		l.Debug("bearer token rejected", slog.Any("error", err))
		return domain.Identity{}, describe(ErrNotAuthenticated, "Invalid or expired token")
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, describe(ErrNotAuthenticated, "User no longer exists")
		}
		return domain.Identity{}, err
	}

	if claims.Version != user.TokenVersion {
		l.Info("revoked bearer token presented", slog.String("user_id", user.ID))
		return domain.Identity{}, describe(ErrTokenRevoked, "Token has been revoked")
	}

	if !user.IsEmailVerified {
		return domain.Identity{}, describe(ErrNotVerified, "Email not verified")
	}

	return domain.IdentityOf(user), nil
}

// Me returns the caller's current profile.
func (s *AuthService) Me(ctx context.Context, id domain.Identity) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, describe(ErrNotAuthenticated, "User no longer exists")
	}
	return user, err
}
