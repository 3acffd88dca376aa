package http

import (
	"net/http"

	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

// AuthHandler serves registration, verification, login and password
// recovery.
type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleRegister handles POST /v1/auth/register
//
//	@Summary		Register
//	@Description	Creates an unverified student account and mails a verification link. An optional invite_code files a pending join request with the owning organization.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.RegisterRequest		true	"Account details"
//	@Success		201		{object}	learnovasdk.RegisterResponse	"Created user"
//	@Failure		400		{object}	learnovasdk.ErrorResponse		"Validation failed or unknown invite code"
//	@Failure		409		{object}	learnovasdk.ErrorResponse		"Email already registered"
//	@Failure		429		{object}	learnovasdk.ErrorResponse		"Rate limited"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req learnovasdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, learnovasdk.RegisterResponse{
		Message: "Registration successful. Please check your email to verify your account.",
		User:    toUserResponse(user),
	})
}

// HandleVerifyEmail handles GET /v1/auth/verify-email
//
//	@Summary		Verify email
//	@Description	Redeems the single-use token from a verification link.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	query		string						true	"Verification token"
//	@Success		200		{object}	learnovasdk.MessageResponse	"Email verified"
//	@Failure		400		{object}	learnovasdk.ErrorResponse	"Invalid, used or expired token"
//	@Router			/v1/auth/verify-email [get].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		badRequest(w, "token is required")
		return
	}

	if err := h.AuthService.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.MessageResponse{Message: "Email verified successfully"})
}

// HandleResendVerification handles POST /v1/auth/verify-email/resend
//
//	@Summary		Resend verification email
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	learnovasdk.MessageResponse	"Verification email sent"
//	@Failure		400		{object}	learnovasdk.ErrorResponse	"Already verified or invalid body"
//	@Failure		404		{object}	learnovasdk.ErrorResponse	"Unknown email"
//	@Router			/v1/auth/verify-email/resend [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req learnovasdk.EmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.AuthService.ResendVerification(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.MessageResponse{Message: "Verification email sent"})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Login
//	@Description	Exchanges email and password for a bearer access token. Unverified accounts are rejected after the password check.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	learnovasdk.LoginResponse	"Access token and profile"
//	@Failure		401		{object}	learnovasdk.ErrorResponse	"Invalid credentials"
//	@Failure		403		{object}	learnovasdk.ErrorResponse	"Email not verified"
//	@Failure		429		{object}	learnovasdk.ErrorResponse	"Rate limited"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req learnovasdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, learnovasdk.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   res.ExpiresIn,
		User:        toUserResponse(res.User),
	})
}

// HandleForgotPassword handles POST /v1/auth/forgot-password
//
//	@Summary		Forgot password
//	@Description	Mails a reset link when the account exists. The response never reveals whether it does.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	learnovasdk.MessageResponse	"Always the same message"
//	@Router			/v1/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req learnovasdk.EmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.MessageResponse{
		Message: "If an account exists for that email, a reset link has been sent.",
	})
}

// HandleResetPassword handles POST /v1/auth/reset-password
//
//	@Summary		Reset password
//	@Description	Redeems a reset token, sets the new password and revokes every issued access token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.ResetPasswordRequest	true	"Token and new password"
//	@Success		200		{object}	learnovasdk.MessageResponse			"Password reset"
//	@Failure		400		{object}	learnovasdk.ErrorResponse			"Invalid token or weak password"
//	@Router			/v1/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req learnovasdk.ResetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.MessageResponse{Message: "Password has been reset successfully"})
}

// HandleMe handles GET /v1/me
//
//	@Summary		Current user
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	learnovasdk.UserResponse	"Profile"
//	@Failure		401	{object}	learnovasdk.ErrorResponse	"Missing, invalid or revoked token"
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.AuthService.Me(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
