package http

import (
	"net/http"
	"strings"

	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

// OrganizationsHandler serves organization creation and member management.
type OrganizationsHandler struct {
	OrganizationService *service.OrganizationService
}

// HandleCreate handles POST /v1/organizations
//
//	@Summary		Create organization
//	@Description	Creates an organization owned by the caller with a fresh six character invite code.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.CreateOrganizationRequest	true	"Organization"
//	@Success		201		{object}	learnovasdk.CreateOrganizationResponse	"Created organization"
//	@Failure		400		{object}	learnovasdk.ErrorResponse				"Validation failed"
//	@Failure		403		{object}	learnovasdk.ErrorResponse				"Caller cannot own organizations"
//	@Security		BearerAuth
//	@Router			/v1/organizations [post].
func (h *OrganizationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.CreateOrganizationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	org, err := h.OrganizationService.CreateOrganization(r.Context(), id, service.CreateOrganizationInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, learnovasdk.CreateOrganizationResponse{
		Organization: toOrganizationResponse(org),
	})
}

// HandleList handles GET /v1/organizations
//
//	@Summary		List my organizations
//	@Tags			Organizations
//	@Produce		json
//	@Success		200	{object}	learnovasdk.ListOrganizationsResponse	"Organizations owned by the caller"
//	@Failure		401	{object}	learnovasdk.ErrorResponse				"Not authenticated"
//	@Security		BearerAuth
//	@Router			/v1/organizations [get].
func (h *OrganizationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orgs, err := h.OrganizationService.ListMyOrganizations(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := learnovasdk.ListOrganizationsResponse{
		Organizations: make([]learnovasdk.OrganizationResponse, len(orgs)),
	}
	for i, o := range orgs {
		resp.Organizations[i] = toOrganizationResponse(o)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleJoinRequests handles GET /v1/organizations/{id}/join-requests
//
//	@Summary		List join requests
//	@Description	view=pending (default) lists pending requests; view=accepted lists accepted and suspended members.
//	@Tags			Organizations
//	@Produce		json
//	@Param			id		path		string								true	"Organization ID"
//	@Param			view	query		string								false	"pending or accepted"
//	@Success		200		{object}	learnovasdk.JoinRequestsResponse	"Members"
//	@Failure		400		{object}	learnovasdk.ErrorResponse			"Invalid view"
//	@Failure		403		{object}	learnovasdk.ErrorResponse			"Not the owner"
//	@Security		BearerAuth
//	@Router			/v1/organizations/{id}/join-requests [get].
func (h *OrganizationsHandler) HandleJoinRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	orgID := r.PathValue("id")
	view := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("view")))
	if view == "" {
		view = string(service.ViewPending)
	}

	members, err := h.OrganizationService.ListJoinRequests(r.Context(), id, orgID, service.JoinRequestView(view))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := learnovasdk.JoinRequestsResponse{
		OrganizationID: orgID,
		View:           view,
		Count:          len(members),
		Members:        make([]learnovasdk.MemberResponse, len(members)),
	}
	for i, m := range members {
		resp.Members[i] = toMemberResponse(m)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleUpdateMember handles PATCH /v1/organizations/{id}/members/{member_id}
//
//	@Summary		Update membership status
//	@Description	Moves a membership through the status table. Repeating the current status is a silent no-op. The member is emailed about real changes.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string									true	"Organization ID"
//	@Param			member_id	path		string									true	"Membership ID"
//	@Param			request		body		learnovasdk.UpdateMemberStatusRequest	true	"Target status"
//	@Success		200			{object}	learnovasdk.UpdateMemberStatusResponse	"Old and new status"
//	@Failure		400			{object}	learnovasdk.ErrorResponse				"Unknown status or disallowed transition"
//	@Failure		403			{object}	learnovasdk.ErrorResponse				"Not the owner"
//	@Failure		404			{object}	learnovasdk.ErrorResponse				"Membership not found"
//	@Security		BearerAuth
//	@Router			/v1/organizations/{id}/members/{member_id} [patch].
func (h *OrganizationsHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.UpdateMemberStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	change, err := h.OrganizationService.UpdateMemberStatus(
		r.Context(), id, r.PathValue("id"), r.PathValue("member_id"), req.Status,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := learnovasdk.UpdateMemberStatusResponse{
		MembershipID:   change.MembershipID,
		UserID:         change.UserID,
		OrganizationID: change.OrganizationID,
		OldStatus:      string(change.OldStatus),
		NewStatus:      string(change.NewStatus),
	}
	if n := change.Notification; n != nil {
		resp.NotificationSent = n.Delivered
		if !n.Delivered {
			resp.NotificationError = n.Reason
		}
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
