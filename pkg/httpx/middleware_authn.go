package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrMissingBearer is passed to the failure writer when no bearer token was sent.
var ErrMissingBearer = errors.New("httpx: missing bearer token")

// AuthenticateFunc resolves a raw bearer token into an enriched context.
// Implementations should call WithUserID so per-user limits work.
type AuthenticateFunc func(ctx context.Context, bearer string) (context.Context, error)

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// AuthnMiddleware authenticates every request with authn and rejects the
// ones that fail through fail.
func AuthnMiddleware(authn AuthenticateFunc, fail ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				writeBearerChallenge(w, "missing bearer token")
				fail(w, r, ErrMissingBearer)
				return
			}

			ctx, err := authn(r.Context(), raw)
			if err != nil {
				writeBearerChallenge(w, "token verification failed")
				fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750 challenge header for bearer auth.
func writeBearerChallenge(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
}
