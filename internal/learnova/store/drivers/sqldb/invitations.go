package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
)

type invitationsRepo struct {
	q *queries
}

const invitationColumns = `id, course_id, created_by, invited_email, invited_user_id,
	token_hash, token_expires_at, status, sent_at, last_sent_at, send_count,
	accepted_at, revoked_at, created_at, updated_at`

func scanInvitation(row scanner) (domain.Invitation, error) {
	var (
		inv                 domain.Invitation
		invitedUserID       sql.NullString
		tokenHash           sql.NullString
		tokenExpiresAt      sql.NullTime
		status              string
		sentAt, lastSentAt  sql.NullTime
		acceptedAt, revoked sql.NullTime
	)
	err := row.Scan(
		&inv.ID, &inv.CourseID, &inv.CreatedBy, &inv.InvitedEmail, &invitedUserID,
		&tokenHash, &tokenExpiresAt, &status, &sentAt, &lastSentAt, &inv.SendCount,
		&acceptedAt, &revoked, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapErr(err)
	}
	inv.InvitedUserID = stringPtr(invitedUserID)
	inv.TokenHash = stringPtr(tokenHash)
	inv.TokenExpiresAt = timePtr(tokenExpiresAt)
	inv.Status = domain.InvitationStatus(status)
	inv.SentAt = timePtr(sentAt)
	inv.LastSentAt = timePtr(lastSentAt)
	inv.AcceptedAt = timePtr(acceptedAt)
	inv.RevokedAt = timePtr(revoked)
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return inv, nil
}

func (r *invitationsRepo) Create(ctx context.Context, inv domain.Invitation) (bool, error) {
	var id string
	err := r.q.queryRow(ctx, `
		INSERT INTO course_invitations (`+invitationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (course_id, invited_email) DO NOTHING
		RETURNING id`,
		inv.ID, inv.CourseID, inv.CreatedBy, inv.InvitedEmail, nullString(inv.InvitedUserID),
		nullString(inv.TokenHash), nullTime(inv.TokenExpiresAt), string(inv.Status),
		nullTime(inv.SentAt), nullTime(inv.LastSentAt), inv.SendCount,
		nullTime(inv.AcceptedAt), nullTime(inv.RevokedAt), inv.CreatedAt.UTC(), inv.UpdatedAt.UTC(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapErr(err)
	}
	return true, nil
}

func (r *invitationsRepo) ListInvitedEmails(ctx context.Context, courseID string) ([]string, error) {
	rows, err := r.q.query(ctx, `
		SELECT invited_email FROM course_invitations WHERE course_id = $1`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, email)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) GetByID(ctx context.Context, id string) (domain.Invitation, error) {
	return scanInvitation(r.q.queryRow(ctx,
		`SELECT `+invitationColumns+` FROM course_invitations WHERE id = $1`, id))
}

func (r *invitationsRepo) GetByEmail(ctx context.Context, courseID, email string) (domain.Invitation, error) {
	return scanInvitation(r.q.queryRow(ctx, `
		SELECT `+invitationColumns+` FROM course_invitations
		WHERE course_id = $1 AND invited_email = $2`,
		courseID, email,
	))
}

func (r *invitationsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	return scanInvitation(r.q.queryRow(ctx,
		`SELECT `+invitationColumns+` FROM course_invitations WHERE token_hash = $1`, hash))
}

func (r *invitationsRepo) List(
	ctx context.Context,
	courseID string,
	statuses []domain.InvitationStatus,
) ([]domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM course_invitations WHERE course_id = $1`
	args := []any{courseID}
	if statuses != nil {
		if len(statuses) == 0 {
			return nil, nil
		}
		query += ` AND status IN (` + placeholders(2, len(statuses)) + `)`
		for _, st := range statuses {
			args = append(args, string(st))
		}
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) RotateToken(
	ctx context.Context,
	id, tokenHash string,
	expiresAt, now time.Time,
) error {
	return r.q.execOne(ctx, `
		UPDATE course_invitations
		SET token_hash = $1,
			token_expires_at = $2,
			status = $3,
			sent_at = COALESCE(sent_at, $4),
			last_sent_at = $5,
			send_count = send_count + 1,
			updated_at = $6
		WHERE id = $7`,
		tokenHash, expiresAt.UTC(), string(domain.InvitationPending),
		now.UTC(), now.UTC(), now.UTC(), id,
	)
}

func (r *invitationsRepo) MarkExpired(ctx context.Context, id string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE course_invitations SET status = $1, updated_at = $2 WHERE id = $3`,
		string(domain.InvitationExpired), now.UTC(), id,
	)
}

func (r *invitationsRepo) MarkAccepted(ctx context.Context, id, userID string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE course_invitations
		SET status = $1,
			accepted_at = $2,
			invited_user_id = COALESCE(invited_user_id, $3),
			updated_at = $4
		WHERE id = $5`,
		string(domain.InvitationAccepted), now.UTC(), userID, now.UTC(), id,
	)
}

func (r *invitationsRepo) Revoke(ctx context.Context, id string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE course_invitations
		SET status = $1, revoked_at = $2, token_hash = NULL, token_expires_at = NULL, updated_at = $3
		WHERE id = $4`,
		string(domain.InvitationRevoked), now.UTC(), now.UTC(), id,
	)
}

func (r *invitationsRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	return r.q.execAffected(ctx, `
		UPDATE course_invitations SET status = $1, updated_at = $2
		WHERE status = $3 AND token_expires_at IS NOT NULL AND token_expires_at <= $4`,
		string(domain.InvitationExpired), now.UTC(), string(domain.InvitationPending), now.UTC(),
	)
}
