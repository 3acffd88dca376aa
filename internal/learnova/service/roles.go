package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/slogx"
)

type RolesService struct {
	Store store.Store
	Clock Clock
}

// AssignRole sets a user's system role. Only admins may call it.
func (s *RolesService) AssignRole(ctx context.Context, id domain.Identity, userID, role string) (domain.User, error) {
	if id.Role != domain.RoleAdmin {
		return domain.User{}, describe(ErrForbidden, "Only admins can assign roles")
	}
	r, ok := domain.ParseSystemRole(role)
	if !ok {
		return domain.User{}, invalidf("Invalid role %q", role)
	}

	now := s.Clock.now()
	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateRole(ctx, userID, r, now); err != nil {
			return err
		}
		var err error
		user, err = tx.Users().GetUserByID(ctx, userID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, describe(ErrNotFound, "User not found")
	}
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("role assigned",
		slog.String("user_id", user.ID),
		slog.String("role", string(r)),
		slog.String("assigned_by", id.UserID),
	)
	return user, nil
}
