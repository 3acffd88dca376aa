package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/metrics"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/cryptox"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/slogx"
)

// TokenService issues and redeems single-use user tokens.
type TokenService struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Clock   Clock
}

// Issue stores a fresh token of typ for the user inside tx and returns its
// plaintext. Types that supersede earlier tokens invalidate every unused one
// first, so only the newest token of that type can ever be redeemed.
func (s *TokenService) Issue(ctx context.Context, tx store.Tx, userID string, typ domain.TokenType) (string, error) {
	if !typ.Valid() {
		return "", fmt.Errorf("issue token: unknown type %q", typ)
	}
	now := s.Clock.now()

	if typ.SupersedesPrevious() {
		if _, err := tx.UserTokens().InvalidateUnused(ctx, userID, typ, now); err != nil {
			return "", fmt.Errorf("invalidate previous %s tokens: %w", typ, err)
		}
	}

	raw, err := s.generate(ctx, tx, typ)
	if err != nil {
		return "", err
	}

	owner := userID
	tok := domain.UserToken{
		ID:        idx.NewAt(now).String(),
		UserID:    &owner,
		Type:      typ,
		Token:     raw,
		ExpiresAt: now.Add(typ.TTL()),
		CreatedAt: now,
	}
	if err := tx.UserTokens().CreateToken(ctx, tok); err != nil {
		if typ.SupersedesPrevious() && errors.Is(err, store.ErrAlreadyExists) {
			return "", fmt.Errorf("store %s token: %w: %w", typ, errIssueConflict, err)
		}
		return "", fmt.Errorf("store %s token: %w", typ, err)
	}
	return raw, nil
}

// errIssueConflict marks an insert that lost to a concurrent Issue of the
// same type for the same user. Only a fresh transaction can see the winner.
var errIssueConflict = errors.New("concurrent token issue")

// maxIssueAttempts bounds WithTx retries after an issue conflict.
const maxIssueAttempts = 3

// WithTx runs fn in a transaction and reruns it when an Issue inside lost to
// a concurrent one. The rerun supersedes the winner's token, so at most one
// unused token of a superseding type exists per user.
func (s *TokenService) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	for attempt := 1; ; attempt++ {
		err := s.Store.WithTx(ctx, fn)
		if !errors.Is(err, errIssueConflict) || attempt == maxIssueAttempts {
			return err
		}
		slogx.FromContext(ctx).Warn("token issue raced, retrying", slog.Int("attempt", attempt))
	}
}

// maxCodeAttempts bounds the search for an unused short code.
const maxCodeAttempts = 5

// generate returns a token value not yet stored for typ. Short OTP codes
// live in a small space and rows are never deleted, so they are checked
// before use; an insert that fails would abort a postgres transaction.
func (s *TokenService) generate(ctx context.Context, tx store.Tx, typ domain.TokenType) (string, error) {
	if typ != domain.TokenDeleteAccountOTP {
		return cryptox.GenerateToken(cryptox.TokenSize256)
	}

	for range maxCodeAttempts {
		code, err := cryptox.GenerateCode(cryptox.CodeSize)
		if err != nil {
			return "", err
		}
		_, err = tx.UserTokens().GetToken(ctx, typ, code)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("issue token: no free code after retries")
}

// RedeemFunc runs in the redeeming transaction after the token was consumed.
type RedeemFunc func(tx store.Tx, tok domain.UserToken) error

// Redeem consumes a token of typ in one transaction and then runs apply in
// that same transaction. When ownerID is non-empty the lookup is scoped to
// that user.
//
// Every failure the caller could learn from collapses into ErrTokenInvalid.
// An expired token is marked used and that write is committed before the
// error is returned.
func (s *TokenService) Redeem(ctx context.Context, typ domain.TokenType, raw, ownerID string, apply RedeemFunc) (domain.UserToken, error) {
	l := slogx.FromContext(ctx)
	now := s.Clock.now()

	if raw == "" {
		s.Metrics.RecordRedemption(string(typ), "invalid")
		return domain.UserToken{}, ErrTokenInvalid
	}

	tx, err := s.Store.Tx(ctx)
	if err != nil {
		return domain.UserToken{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Look the token up, scoped to its owner when one is given
	var tok domain.UserToken
	if ownerID != "" {
		tok, err = tx.UserTokens().GetUserToken(ctx, ownerID, typ, raw)
	} else {
		tok, err = tx.UserTokens().GetToken(ctx, typ, raw)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("token redemption with unknown token", slog.String("type", string(typ)))
			s.Metrics.RecordRedemption(string(typ), "invalid")
			return domain.UserToken{}, ErrTokenInvalid
		}
		return domain.UserToken{}, err
	}

	// 2. Already consumed
	if tok.UsedAt != nil {
		l.Warn("token redemption with used token",
			slog.String("type", string(typ)),
			slog.String("token_id", tok.ID),
		)
		s.Metrics.RecordRedemption(string(typ), "used")
		return domain.UserToken{}, ErrTokenInvalid
	}

	// 3. Expired: close it for good, then refuse
	if tok.Expired(now) {
		if _, err := tx.UserTokens().MarkUsed(ctx, tok.ID, now); err != nil {
			return domain.UserToken{}, err
		}
		if err := tx.Commit(); err != nil {
			return domain.UserToken{}, err
		}
		l.Info("expired token closed", slog.String("type", string(typ)), slog.String("token_id", tok.ID))
		s.Metrics.RecordRedemption(string(typ), "expired")
		return domain.UserToken{}, ErrTokenInvalid
	}

	// 4. Consume it; losing a concurrent redeem leaves zero rows touched
	ok, err := tx.UserTokens().MarkUsed(ctx, tok.ID, now)
	if err != nil {
		return domain.UserToken{}, err
	}
	if !ok {
		s.Metrics.RecordRedemption(string(typ), "used")
		return domain.UserToken{}, ErrTokenInvalid
	}
	tok.UsedAt = &now

	// 5. Apply the side effect in the same transaction
	if apply != nil {
		if err := apply(tx, tok); err != nil {
			return domain.UserToken{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.UserToken{}, err
	}

	s.Metrics.RecordRedemption(string(typ), "redeemed")
	return tok, nil
}
