package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
	"github.com/learnova/learnova/pkg/slogx"
)

type errorMapping struct {
	err    error
	status int
	code   string
	desc   string // used when the error carries no description
}

var errorTable = []errorMapping{
	{service.ErrNotAuthenticated, http.StatusUnauthorized, learnovasdk.ErrorCodeNotAuthenticated, "Not authenticated"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, learnovasdk.ErrorCodeTokenRevoked, "Token has been revoked"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, learnovasdk.ErrorCodeInvalidCredentials, "Invalid email or password"},
	{service.ErrNotVerified, http.StatusForbidden, learnovasdk.ErrorCodeEmailNotVerified, "Email not verified"},
	{service.ErrTokenInvalid, http.StatusBadRequest, learnovasdk.ErrorCodeInvalidToken, "Invalid or expired token"},
	{service.ErrInvalidTransition, http.StatusBadRequest, learnovasdk.ErrorCodeInvalidTransition, "Invalid status transition"},
	{service.ErrNotEligible, http.StatusConflict, learnovasdk.ErrorCodeNotEligible, "Not eligible"},
	{service.ErrInvitationRevoked, http.StatusForbidden, learnovasdk.ErrorCodeInvitationRevoked, "Invitation has been revoked"},
	{service.ErrConflict, http.StatusConflict, learnovasdk.ErrorCodeConflict, "Conflict"},
	{service.ErrForbidden, http.StatusForbidden, learnovasdk.ErrorCodeForbidden, "Forbidden"},
	{service.ErrGone, http.StatusGone, learnovasdk.ErrorCodeGone, "Gone"},
	{service.ErrNotFound, http.StatusNotFound, learnovasdk.ErrorCodeNotFound, "Not found"},
	{service.ErrValidation, http.StatusBadRequest, learnovasdk.ErrorCodeInvalidRequest, "Invalid request"},
	{httpx.ErrInvalidJSON, http.StatusBadRequest, learnovasdk.ErrorCodeInvalidRequest, "Request body must be valid JSON"},
	{service.ErrInviteSecretMissing, http.StatusInternalServerError, learnovasdk.ErrorCodeServerMisconfigured, "Invitation tokens are not configured"},
	{service.ErrBootstrapUnauthorized, http.StatusUnauthorized, learnovasdk.ErrorCodeUnauthorized, "Invalid bootstrap token"},
	{service.ErrBootstrapAlready, http.StatusUnauthorized, learnovasdk.ErrorCodeUnauthorized, "System has already been bootstrapped"},
	{httpx.ErrMissingBearer, http.StatusUnauthorized, learnovasdk.ErrorCodeNotAuthenticated, "Missing bearer token"},
}

// classify maps err onto a status and the response envelope.
func classify(err error) (int, learnovasdk.ErrorResponse) {
	for _, m := range errorTable {
		if !errors.Is(err, m.err) {
			continue
		}
		desc := service.Description(err)
		if desc == "" {
			desc = m.desc
		}
		return m.status, learnovasdk.ErrorResponse{Error: m.code, ErrorDescription: desc}
	}
	return http.StatusInternalServerError, learnovasdk.ErrorResponse{
		Error:            learnovasdk.ErrorCodeServerError,
		ErrorDescription: "An internal error occurred",
	}
}

// writeError renders err as the JSON error envelope. Unexpected errors are
// logged with the request logger.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	httpx.WriteJSON(w, status, body)
}

func badRequest(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, learnovasdk.ErrorResponse{
		Error:            learnovasdk.ErrorCodeInvalidRequest,
		ErrorDescription: desc,
	})
}
