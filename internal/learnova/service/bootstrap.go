package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/roster"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first administrator of an empty deployment.
type BootstrapService struct {
	Store store.Store
	Token string // pre-configured bootstrap token, empty disables bootstrap
	Clock Clock
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates a verified admin while the users table is empty.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate provided token
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	// 2. Validate the admin account
	email := domain.NormalizeEmail(req.AdminEmail)
	if !roster.LooksLikeEmail(email) {
		return domain.User{}, invalidf("a valid admin email is required")
	}
	if err := validatePassword(req.AdminPassword); err != nil {
		return domain.User{}, err
	}

	// 3. Hash password
	hash, err := cryptox.HashPassword(req.AdminPassword)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := s.Clock.now()
	admin := domain.User{
		ID:              idx.NewAt(now).String(),
		Email:           email,
		FullName:        req.AdminFullName,
		PasswordHash:    hash,
		Role:            domain.RoleAdmin,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// 4. Check emptiness and create the admin in one transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}
		return tx.Users().CreateUser(ctx, admin)
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		} else {
			l.Error("failed to create admin user", slog.Any("error", err))
		}
		return domain.User{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", admin.ID))
	return admin, nil
}
