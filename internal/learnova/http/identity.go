package http

import (
	"context"
	"net/http"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/slogx"
)

type identityKey struct{}

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// identityFrom returns the caller resolved by the identity middleware.
func identityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// IdentityMiddleware resolves the bearer token into a domain.Identity and
// rejects the request with the error envelope when that fails.
func IdentityMiddleware(auth *service.AuthService) httpx.Middleware {
	authenticate := func(ctx context.Context, bearer string) (context.Context, error) {
		id, err := auth.Authenticate(ctx, bearer)
		if err != nil {
			return nil, err
		}
		ctx = withIdentity(ctx, id)
		ctx = httpx.WithUserID(ctx, id.UserID)
		return slogx.WithAttrs(ctx, "user_id", id.UserID), nil
	}
	return httpx.AuthnMiddleware(authenticate, writeError)
}

// requireIdentity fetches the caller or writes a 401. Routes behind
// IdentityMiddleware always have one.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, r, service.ErrNotAuthenticated)
	}
	return id, ok
}
