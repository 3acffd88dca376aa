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
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/slogx"
)

// maxInviteCodeAttempts bounds invite code generation on collision.
const maxInviteCodeAttempts = 5

type OrganizationService struct {
	Store  store.Store
	Mailer *Mailer
	Clock  Clock
}

type CreateOrganizationInput struct {
	Name        string
	Description string
	LogoURL     *string
}

// MemberStatusChange reports the outcome of UpdateMemberStatus.
type MemberStatusChange struct {
	MembershipID   string
	UserID         string
	OrganizationID string
	OldStatus      domain.MembershipStatus
	NewStatus      domain.MembershipStatus
	Notification   *notify.Result // nil when nothing was sent
}

// JoinRequestView selects which memberships ListJoinRequests returns.
type JoinRequestView string

const (
	ViewPending  JoinRequestView = "pending"
	ViewAccepted JoinRequestView = "accepted"
)

func (v JoinRequestView) statuses() ([]domain.MembershipStatus, bool) {
	switch JoinRequestView(strings.ToLower(strings.TrimSpace(string(v)))) {
	case ViewPending:
		return []domain.MembershipStatus{domain.MembershipPending}, true
	case ViewAccepted:
		return []domain.MembershipStatus{domain.MembershipAccepted, domain.MembershipSuspended}, true
	}
	return nil, false
}

func lengthBetween(s string, lo, hi int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// CreateOrganization creates an organization owned by the caller with a
// fresh six character invite code.
func (s *OrganizationService) CreateOrganization(ctx context.Context, id domain.Identity, in CreateOrganizationInput) (domain.Organization, error) {
	l := slogx.FromContext(ctx)

	// 1. Owner role only
	if id.Role != domain.RoleOwner {
		l.Warn("organization creation by non owner", slog.String("user_id", id.UserID))
		return domain.Organization{}, describe(ErrForbidden, "Only owners can create organizations")
	}

	// 2. Validate input
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if !lengthBetween(name, 2, 255) {
		return domain.Organization{}, invalidf("name must be 2 to 255 characters")
	}
	if !lengthBetween(desc, 2, 50) {
		return domain.Organization{}, invalidf("description must be 2 to 50 characters")
	}
	if in.LogoURL != nil && utf8.RuneCountInString(*in.LogoURL) > 512 {
		return domain.Organization{}, invalidf("logo_url must be at most 512 characters")
	}

	now := s.Clock.now()
	org := domain.Organization{
		ID:                 idx.NewAt(now).String(),
		Name:               name,
		Description:        desc,
		LogoURL:            in.LogoURL,
		OwnerID:            id.UserID,
		SubscriptionPlanID: domain.DefaultPlanID,
		SubscriptionStatus: "active",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// 3. Pick an unused invite code and insert
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for range maxInviteCodeAttempts {
			code, err := cryptox.GenerateCode(cryptox.CodeSize)
			if err != nil {
				return err
			}
			_, err = tx.Organizations().GetByInviteCode(ctx, code)
			if errors.Is(err, store.ErrNotFound) {
				org.InviteCode = code
				return tx.Organizations().Create(ctx, org)
			}
			if err != nil {
				return err
			}
		}
		return errors.New("failed to generate invite code")
	})
	if err != nil {
		l.Error("failed to create organization", slog.Any("error", err))
		return domain.Organization{}, err
	}

	l.Info("organization created",
		slog.String("organization_id", org.ID),
		slog.String("owner_id", org.OwnerID),
	)
	return org, nil
}

// ListMyOrganizations returns the organizations the caller owns.
func (s *OrganizationService) ListMyOrganizations(ctx context.Context, id domain.Identity) ([]domain.Organization, error) {
	return s.Store.Organizations().ListByOwner(ctx, id.UserID)
}

// requireOwnedOrg loads the organization and checks the caller owns it.
// Both a foreign and a missing organization read as forbidden.
func requireOwnedOrg(ctx context.Context, st store.Store, id domain.Identity, orgID string) (domain.Organization, error) {
	if id.Role != domain.RoleOwner {
		return domain.Organization{}, describe(ErrForbidden, "Only owners can manage organization members")
	}
	org, err := st.Organizations().GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organization{}, describe(ErrForbidden, "Access denied")
		}
		return domain.Organization{}, err
	}
	if org.OwnerID != id.UserID {
		return domain.Organization{}, describe(ErrForbidden, "Access denied")
	}
	return org, nil
}

// ListJoinRequests lists the organization's members for one view, joined
// with their profiles.
func (s *OrganizationService) ListJoinRequests(ctx context.Context, id domain.Identity, orgID string, view JoinRequestView) ([]domain.MemberView, error) {
	if _, err := requireOwnedOrg(ctx, s.Store, id, orgID); err != nil {
		return nil, err
	}
	statuses, ok := view.statuses()
	if !ok {
		return nil, invalidf("Invalid view")
	}
	return s.Store.Members().ListMembers(ctx, orgID, statuses)
}

// UpdateMemberStatus moves a membership through the transition table. A
// self transition succeeds without writing or notifying. The member is
// emailed after commit; the outcome is reported, never returned as an error.
func (s *OrganizationService) UpdateMemberStatus(ctx context.Context, id domain.Identity, orgID, membershipID, status string) (MemberStatusChange, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate the requested status
	next, ok := domain.ParseMembershipStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return MemberStatusChange{}, invalidf("Invalid status")
	}

	now := s.Clock.now()
	var (
		change MemberStatusChange
		org    domain.Organization
		member domain.User
	)

	// 2. Ownership, transition and write in one transaction
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		org, err = requireOwnedOrg(ctx, tx, id, orgID)
		if err != nil {
			return err
		}

		m, err := tx.Members().GetMembership(ctx, membershipID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return describe(ErrNotFound, "Member not found")
			}
			return err
		}
		if m.OrganizationID != org.ID {
			return describe(ErrForbidden, "Access denied")
		}

		change = MemberStatusChange{
			MembershipID:   m.ID,
			UserID:         m.UserID,
			OrganizationID: m.OrganizationID,
			OldStatus:      m.Status,
			NewStatus:      next,
		}
		if m.Status == next {
			return nil
		}
		if err := m.Status.Transition(next); err != nil {
			return err
		}

		// joined_at is written once, on the first pending -> accepted
		var joinedAt *time.Time
		if m.Status == domain.MembershipPending && next == domain.MembershipAccepted {
			joinedAt = &now
		}
		if err := tx.Members().UpdateMembershipStatus(ctx, m.ID, next, joinedAt, now); err != nil {
			return err
		}

		member, err = tx.Users().GetUserByID(ctx, m.UserID)
		return err
	})
	if err != nil {
		var te *domain.TransitionError
		if errors.As(err, &te) {
			l.Info("rejected membership transition",
				slog.String("membership_id", membershipID),
				slog.String("from", te.From),
				slog.String("to", te.To),
			)
		}
		return MemberStatusChange{}, err
	}

	if change.OldStatus == change.NewStatus {
		return change, nil
	}

	l.Info("membership status updated",
		slog.String("membership_id", change.MembershipID),
		slog.String("from", string(change.OldStatus)),
		slog.String("to", string(change.NewStatus)),
	)

	// 3. Notify the member
	res := s.Mailer.deliver(ctx, func(r *notify.Renderer) (notify.Message, error) {
		return r.MembershipUpdate(member.Email, member.FullName, org.Name, string(change.OldStatus), string(change.NewStatus))
	})
	change.Notification = &res
	return change, nil
}
