package http

import (
	"net/http"

	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

type SettingsHandler struct {
	SettingsService *service.SettingsService
}

// HandleUpdateProfile handles PATCH /v1/settings/profile
//
//	@Summary		Update profile
//	@Description	Updates full_name and avatar_url. Omitted fields are left alone and an empty avatar_url clears it.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	learnovasdk.UserResponse			"Updated profile"
//	@Failure		400		{object}	learnovasdk.ErrorResponse			"Invalid body"
//	@Failure		401		{object}	learnovasdk.ErrorResponse			"Not authenticated"
//	@Security		BearerAuth
//	@Router			/v1/settings/profile [patch].
func (h *SettingsHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.SettingsService.UpdateProfile(r.Context(), id, service.ProfileUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleChangePassword handles POST /v1/settings/password
//
//	@Summary		Change password
//	@Description	Verifies the current password, stores the new one and revokes every issued access token. A confirmation email is attempted.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		200		{object}	learnovasdk.ChangePasswordResponse	"Password changed"
//	@Failure		400		{object}	learnovasdk.ErrorResponse			"Weak or unchanged password"
//	@Failure		401		{object}	learnovasdk.ErrorResponse			"Wrong current password"
//	@Security		BearerAuth
//	@Router			/v1/settings/password [post].
func (h *SettingsHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sent, err := h.SettingsService.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.ChangePasswordResponse{
		Message:               "Password changed successfully. Please log in again.",
		EmailNotificationSent: sent,
	})
}

// HandleRequestDeletion handles POST /v1/settings/delete-account/request
//
//	@Summary		Request account deletion
//	@Description	Verifies the password and mails a six character one-time code.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.DeleteAccountRequest	true	"Current password"
//	@Success		200		{object}	learnovasdk.DeleteAccountResponse	"OTP issued"
//	@Failure		401		{object}	learnovasdk.ErrorResponse			"Wrong password"
//	@Security		BearerAuth
//	@Router			/v1/settings/delete-account/request [post].
func (h *SettingsHandler) HandleRequestDeletion(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.DeleteAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sent, err := h.SettingsService.RequestAccountDeletion(r.Context(), id, req.CurrentPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.DeleteAccountResponse{
		Message:   "A confirmation code has been sent to your email.",
		EmailSent: sent,
	})
}

// HandleConfirmDeletion handles POST /v1/settings/delete-account/confirm
//
//	@Summary		Confirm account deletion
//	@Description	Redeems the one-time code and permanently deletes the account.
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.ConfirmDeleteAccountRequest	true	"One-time code"
//	@Success		200		{object}	learnovasdk.MessageResponse				"Account deleted"
//	@Failure		400		{object}	learnovasdk.ErrorResponse				"Invalid or expired code"
//	@Security		BearerAuth
//	@Router			/v1/settings/delete-account/confirm [post].
func (h *SettingsHandler) HandleConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.ConfirmDeleteAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.SettingsService.ConfirmAccountDeletion(r.Context(), id, req.OTP); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.MessageResponse{Message: "Account deleted successfully"})
}
