package http

import (
	"net/http"
	"strings"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
	"github.com/learnova/learnova/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the platform
//	@Description	Creates the first, verified admin user. Only available when a bootstrap token is configured and only while no user exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		learnovasdk.BootstrapRequest	true	"Admin account"
//	@Success		201					{object}	learnovasdk.BootstrapResponse	"Admin created"
//	@Failure		400					{object}	learnovasdk.ErrorResponse		"Invalid request body"
//	@Failure		401					{object}	learnovasdk.ErrorResponse		"Invalid token or already bootstrapped"
//	@Failure		404					{object}	learnovasdk.ErrorResponse		"Bootstrap not enabled"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, learnovasdk.ErrorResponse{
			Error:            learnovasdk.ErrorCodeNotFound,
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, learnovasdk.ErrorResponse{
			Error:            learnovasdk.ErrorCodeUnauthorized,
			ErrorDescription: "Bootstrap token is required in X-Bootstrap-Token header",
		})
		return
	}

	// 3. Parse request body
	var req learnovasdk.BootstrapRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// 4. Perform bootstrap
	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, domain.BootstrapData{
		AdminEmail:    strings.TrimSpace(req.AdminEmail),
		AdminFullName: strings.TrimSpace(req.AdminFullName),
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	l.Info("platform bootstrapped", "admin_user_id", admin.ID)
	httpx.WriteJSON(w, http.StatusCreated, learnovasdk.BootstrapResponse{AdminUserID: admin.ID})
}

type RolesHandler struct {
	RolesService *service.RolesService
}

// ServeHTTP handles PUT /v1/admin/users/{id}/role
//
//	@Summary		Assign a system role
//	@Description	Sets the platform-wide role of a user. Admin only.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		learnovasdk.AssignRoleRequest	true	"Role"
//	@Success		200		{object}	learnovasdk.UserResponse	"Updated user"
//	@Failure		400		{object}	learnovasdk.ErrorResponse	"Unknown role"
//	@Failure		403		{object}	learnovasdk.ErrorResponse	"Caller is not an admin"
//	@Failure		404		{object}	learnovasdk.ErrorResponse	"User not found"
//	@Security		BearerAuth
//	@Router			/v1/admin/users/{id}/role [put].
func (h *RolesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.AssignRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.RolesService.AssignRole(r.Context(), id, r.PathValue("id"), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
