package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
)

type organizationsRepo struct {
	q *queries
}

const organizationColumns = `id, name, description, logo_url, owner_id, invite_code,
	subscription_plan_id, subscription_status, created_at, updated_at`

func scanOrganization(row scanner) (domain.Organization, error) {
	var (
		o    domain.Organization
		logo sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.Name, &o.Description, &logo, &o.OwnerID, &o.InviteCode,
		&o.SubscriptionPlanID, &o.SubscriptionStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Organization{}, mapErr(err)
	}
	o.LogoURL = stringPtr(logo)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

func (r *organizationsRepo) Create(ctx context.Context, o domain.Organization) error {
	_, err := r.q.exec(ctx, `
		INSERT INTO organizations (`+organizationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, o.Name, o.Description, nullString(o.LogoURL), o.OwnerID, o.InviteCode,
		o.SubscriptionPlanID, o.SubscriptionStatus, o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	)
	return err
}

func (r *organizationsRepo) GetByID(ctx context.Context, id string) (domain.Organization, error) {
	return scanOrganization(r.q.queryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
}

func (r *organizationsRepo) GetByInviteCode(ctx context.Context, code string) (domain.Organization, error) {
	return scanOrganization(r.q.queryRow(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE invite_code = $1`, code))
}

func (r *organizationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error) {
	rows, err := r.q.query(ctx, `
		SELECT `+organizationColumns+` FROM organizations
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type membersRepo struct {
	q *queries
}

const membershipColumns = `om.id, om.organization_id, om.user_id, om.status, om.role,
	om.joined_at, om.created_at, om.updated_at`

func scanMembership(row scanner, extra ...any) (domain.Membership, error) {
	var (
		m        domain.Membership
		status   string
		joinedAt sql.NullTime
	)
	dest := append([]any{
		&m.ID, &m.OrganizationID, &m.UserID, &status, &m.Role,
		&joinedAt, &m.CreatedAt, &m.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Membership{}, mapErr(err)
	}
	m.Status = domain.MembershipStatus(status)
	m.JoinedAt = timePtr(joinedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

func (r *membersRepo) Create(ctx context.Context, m domain.Membership) error {
	_, err := r.q.exec(ctx, `
		INSERT INTO organization_members
			(id, organization_id, user_id, status, role, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.OrganizationID, m.UserID, string(m.Status), m.Role,
		nullTime(m.JoinedAt), m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
	return err
}

func (r *membersRepo) GetMembership(ctx context.Context, id string) (domain.Membership, error) {
	return scanMembership(r.q.queryRow(ctx,
		`SELECT `+membershipColumns+` FROM organization_members om WHERE om.id = $1`, id))
}

func (r *membersRepo) GetMembershipByUser(ctx context.Context, orgID, userID string) (domain.Membership, error) {
	return scanMembership(r.q.queryRow(ctx, `
		SELECT `+membershipColumns+` FROM organization_members om
		WHERE om.organization_id = $1 AND om.user_id = $2`,
		orgID, userID,
	))
}

func (r *membersRepo) UpdateMembershipStatus(
	ctx context.Context,
	id string,
	status domain.MembershipStatus,
	joinedAt *time.Time,
	now time.Time,
) error {
	return r.q.execOne(ctx, `
		UPDATE organization_members
		SET status = $1, joined_at = COALESCE(joined_at, $2), updated_at = $3
		WHERE id = $4`,
		string(status), nullTime(joinedAt), now.UTC(), id,
	)
}

func (r *membersRepo) ListMembers(
	ctx context.Context,
	orgID string,
	statuses []domain.MembershipStatus,
) ([]domain.MemberView, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(statuses)+1)
	args = append(args, orgID)
	for _, st := range statuses {
		args = append(args, string(st))
	}

	rows, err := r.q.query(ctx, `
		SELECT `+membershipColumns+`, u.email, u.full_name, u.avatar_url, u.system_role
		FROM organization_members om
		JOIN users u ON u.id = om.user_id
		WHERE om.organization_id = $1 AND om.status IN (`+placeholders(2, len(statuses))+`)
		ORDER BY u.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MemberView
	for rows.Next() {
		var (
			v      domain.MemberView
			avatar sql.NullString
			role   string
		)
		m, err := scanMembership(rows, &v.Email, &v.FullName, &avatar, &role)
		if err != nil {
			return nil, err
		}
		v.Membership = m
		v.AvatarURL = stringPtr(avatar)
		v.SystemRole = domain.SystemRole(role)
		out = append(out, v)
	}
	return out, rows.Err()
}
