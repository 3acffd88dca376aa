package sqldb

import (
	"context"
	"database/sql"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
)

type userTokensRepo struct {
	q *queries
}

const userTokenColumns = `id, user_id, type, token, expires_at, used_at, created_at`

func scanUserToken(row scanner) (domain.UserToken, error) {
	var (
		t      domain.UserToken
		userID sql.NullString
		typ    string
		usedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &userID, &typ, &t.Token, &t.ExpiresAt, &usedAt, &t.CreatedAt); err != nil {
		return domain.UserToken{}, mapErr(err)
	}
	t.UserID = stringPtr(userID)
	t.Type = domain.TokenType(typ)
	t.UsedAt = timePtr(usedAt)
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *userTokensRepo) CreateToken(ctx context.Context, t domain.UserToken) error {
	_, err := r.q.exec(ctx, `
		INSERT INTO user_tokens (`+userTokenColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, nullString(t.UserID), string(t.Type), t.Token,
		t.ExpiresAt.UTC(), nullTime(t.UsedAt), t.CreatedAt.UTC(),
	)
	return err
}

func (r *userTokensRepo) GetToken(
	ctx context.Context,
	typ domain.TokenType,
	token string,
) (domain.UserToken, error) {
	return scanUserToken(r.q.queryRow(ctx, `
		SELECT `+userTokenColumns+` FROM user_tokens
		WHERE type = $1 AND token = $2`,
		string(typ), token,
	))
}

func (r *userTokensRepo) GetUserToken(
	ctx context.Context,
	userID string,
	typ domain.TokenType,
	token string,
) (domain.UserToken, error) {
	return scanUserToken(r.q.queryRow(ctx, `
		SELECT `+userTokenColumns+` FROM user_tokens
		WHERE user_id = $1 AND type = $2 AND token = $3`,
		userID, string(typ), token,
	))
}

func (r *userTokensRepo) MarkUsed(ctx context.Context, id string, now time.Time) (bool, error) {
	n, err := r.q.execAffected(ctx, `
		UPDATE user_tokens SET used_at = $1 WHERE id = $2 AND used_at IS NULL`,
		now.UTC(), id,
	)
	return n == 1, err
}

func (r *userTokensRepo) InvalidateUnused(
	ctx context.Context,
	userID string,
	typ domain.TokenType,
	now time.Time,
) (int64, error) {
	return r.q.execAffected(ctx, `
		UPDATE user_tokens SET used_at = $1
		WHERE user_id = $2 AND type = $3 AND used_at IS NULL`,
		now.UTC(), userID, string(typ),
	)
}

func (r *userTokensRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	return r.q.execAffected(ctx, `
		UPDATE user_tokens SET used_at = $1
		WHERE used_at IS NULL AND expires_at <= $2`,
		now.UTC(), now.UTC(),
	)
}
