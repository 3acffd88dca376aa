package learnovasdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the public endpoints of a Learnova service and opens
// authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a 10 second timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK, nil); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", "", nil, &health, http.StatusOK, nil); err != nil {
		return nil, err
	}
	return &health, nil
}

// Bootstrap creates the first admin. It only succeeds once.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	var out BootstrapResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/bootstrap", "", req, &out, http.StatusCreated,
		map[string]string{"X-Bootstrap-Token": token})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an unverified student account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", "", req, &out, http.StatusCreated, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail redeems the token from a verification link.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	path := "/v1/auth/verify-email?token=" + url.QueryEscape(token)
	return c.doJSON(ctx, http.MethodGet, path, "", nil, nil, http.StatusOK, nil)
}

// ResendVerification asks for a new verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/verify-email/resend", "",
		EmailRequest{Email: email}, nil, http.StatusOK, nil)
}

// ForgotPassword requests a reset link. The response is the same whether or
// not the account exists.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/forgot-password", "",
		EmailRequest{Email: email}, nil, http.StatusOK, nil)
}

// ResetPassword redeems a reset token. Every existing session is revoked.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/reset-password", "",
		ResetPasswordRequest{Token: token, NewPassword: newPassword}, nil, http.StatusOK, nil)
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", "",
		LoginRequest{Email: email, Password: password}, &out, http.StatusOK, nil)
	if err != nil {
		return nil, err
	}
	return c.NewSession(out.AccessToken, out.User), nil
}

// NewSession wraps an existing access token.
func (c *Client) NewSession(accessToken string, user UserResponse) *Session {
	return &Session{client: c, accessToken: accessToken, User: user}
}
