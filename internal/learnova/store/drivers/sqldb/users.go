package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
)

type usersRepo struct {
	q *queries
}

const userColumns = `id, email, full_name, avatar_url, password_hash, system_role,
	is_email_verified, token_version, created_at, updated_at`

func scanUser(row scanner) (domain.User, error) {
	var (
		u      domain.User
		avatar sql.NullString
		role   string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &avatar, &u.PasswordHash, &role,
		&u.IsEmailVerified, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	u.AvatarURL = stringPtr(avatar)
	u.Role = domain.SystemRole(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.FullName, nullString(u.AvatarURL), u.PasswordHash, string(u.Role),
		u.IsEmailVerified, u.TokenVersion, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.q.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	userID, fullName string,
	avatarURL *string,
	now time.Time,
) error {
	return r.q.execOne(ctx, `
		UPDATE users SET full_name = $1, avatar_url = $2, updated_at = $3
		WHERE id = $4`,
		fullName, nullString(avatarURL), now.UTC(), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, now.UTC(), userID,
	)
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE users SET is_email_verified = $1, updated_at = $2 WHERE id = $3`,
		true, now.UTC(), userID,
	)
}

func (r *usersRepo) BumpTokenVersion(ctx context.Context, userID string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE users SET token_version = token_version + 1, updated_at = $1 WHERE id = $2`,
		now.UTC(), userID,
	)
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.SystemRole, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE users SET system_role = $1, updated_at = $2 WHERE id = $3`,
		string(role), now.UTC(), userID,
	)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.q.execOne(ctx, `DELETE FROM users WHERE id = $1`, userID)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.q.queryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false, mapErr(err)
	}
	return n == 0, nil
}
