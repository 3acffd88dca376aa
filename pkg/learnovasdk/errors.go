package learnovasdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrorCodeNotAuthenticated    = "not_authenticated"
	ErrorCodeTokenRevoked        = "token_revoked"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeEmailNotVerified    = "email_not_verified"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeInvalidTransition   = "invalid_transition"
	ErrorCodeNotEligible         = "not_eligible"
	ErrorCodeInvitationRevoked   = "invitation_revoked"
	ErrorCodeConflict            = "conflict"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeGone                = "gone"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeServerMisconfigured = "server_misconfigured"
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeRateLimited         = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// APIError is a decoded error envelope together with its HTTP status.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
