package http

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

// MaxRosterBytes bounds an uploaded roster, multipart envelope included.
const MaxRosterBytes = 10 << 20

// InvitationsHandler serves the course invitation workflow.
type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// readRoster extracts either a multipart roster file or a JSON email list.
func readRoster(r *http.Request) (*service.RosterFile, []string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req learnovasdk.UploadInvitationsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return nil, nil, err
		}
		return nil, req.Emails, nil
	}

	if err := r.ParseMultipartForm(MaxRosterBytes); err != nil {
		return nil, nil, &service.Error{Err: service.ErrValidation, Description: "Invalid multipart form"}
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, nil, &service.Error{Err: service.ErrValidation, Description: "file is required"}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return &service.RosterFile{
		Name:        hdr.Filename,
		Data:        data,
		SheetName:   strings.TrimSpace(r.FormValue("sheet_name")),
		EmailColumn: strings.TrimSpace(r.FormValue("email_column")),
	}, nil, nil
}

// HandleUpload handles POST /v1/courses/{id}/invitations/upload
//
//	@Summary		Upload invitations
//	@Description	Invites every new email from an .xlsx/.csv roster (multipart field "file", optional "sheet_name" and "email_column") or from a JSON list. Emails already invited are skipped. New invitations are sent straight away.
//	@Tags			Invitations
//	@Accept			mpfd,json
//	@Produce		json
//	@Param			id				path		string									true	"Course ID"
//	@Param			file			formData	file									false	"Roster spreadsheet"
//	@Param			sheet_name		formData	string									false	"Worksheet to read"
//	@Param			email_column	formData	string									false	"Header of the email column"
//	@Success		200				{object}	learnovasdk.UploadInvitationsResponse	"Upload summary"
//	@Failure		400				{object}	learnovasdk.ErrorResponse				"Unreadable roster or no email column"
//	@Failure		403				{object}	learnovasdk.ErrorResponse				"Not the course owner or course is not private"
//	@Failure		404				{object}	learnovasdk.ErrorResponse				"Course not found"
//	@Failure		500				{object}	learnovasdk.ErrorResponse				"Invite token secret missing"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id}/invitations/upload [post].
func (h *InvitationsHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	file, emails, err := readRoster(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.InvitationService.Upload(r.Context(), id, r.PathValue("id"), file, emails)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUploadResponse(res))
}

// HandleSend handles POST /v1/courses/{id}/invitations/send
//
//	@Summary		Send invitations
//	@Description	Rotates the token of one invitation (email) or of every eligible one and emails the links. include_expired defaults to true.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Course ID"
//	@Param			request	body		learnovasdk.SendInvitationsRequest	false	"Target"
//	@Success		200		{object}	learnovasdk.SendInvitationsResponse	"Send summary"
//	@Failure		403		{object}	learnovasdk.ErrorResponse			"Not the course owner"
//	@Failure		404		{object}	learnovasdk.ErrorResponse			"Course or invitation not found"
//	@Failure		409		{object}	learnovasdk.ErrorResponse			"Invitation not eligible"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id}/invitations/send [post].
func (h *InvitationsHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.SendInvitationsRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	includeExpired := true
	if req.IncludeExpired != nil {
		includeExpired = *req.IncludeExpired
	}

	res, err := h.InvitationService.Send(r.Context(), id, r.PathValue("id"), service.SendRequest{
		Email:          req.Email,
		IncludeExpired: includeExpired,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSendResponse(res))
}

// HandleList handles GET /v1/courses/{id}/invitations
//
//	@Summary		List invitations
//	@Tags			Invitations
//	@Produce		json
//	@Param			id		path		string								true	"Course ID"
//	@Param			status	query		string								false	"pending, accepted, revoked or expired"
//	@Success		200		{object}	learnovasdk.ListInvitationsResponse	"Invitations, newest first"
//	@Failure		400		{object}	learnovasdk.ErrorResponse			"Unknown status"
//	@Failure		403		{object}	learnovasdk.ErrorResponse			"Not the course owner"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id}/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	courseID := r.PathValue("id")
	invs, err := h.InvitationService.List(r.Context(), id, courseID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := learnovasdk.ListInvitationsResponse{
		CourseID:    courseID,
		Count:       len(invs),
		Invitations: make([]learnovasdk.InvitationResponse, len(invs)),
	}
	for i, inv := range invs {
		resp.Invitations[i] = toInvitationResponse(inv)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRevoke handles POST /v1/courses/{id}/invitations/{invitation_id}/revoke
//
//	@Summary		Revoke invitation
//	@Tags			Invitations
//	@Produce		json
//	@Param			id				path		string							true	"Course ID"
//	@Param			invitation_id	path		string							true	"Invitation ID"
//	@Success		200				{object}	learnovasdk.InvitationResponse	"Revoked invitation"
//	@Failure		400				{object}	learnovasdk.ErrorResponse		"Invitation already accepted or revoked"
//	@Failure		404				{object}	learnovasdk.ErrorResponse		"Invitation not found"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id}/invitations/{invitation_id}/revoke [post].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	inv, err := h.InvitationService.Revoke(r.Context(), id, r.PathValue("id"), r.PathValue("invitation_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv))
}

// HandleAccept handles POST /v1/courses/invitations/accept
//
//	@Summary		Accept invitation
//	@Description	Enrolls the caller with the token from an invitation link. Accepting twice is idempotent.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.AcceptInvitationRequest		true	"Raw token"
//	@Success		200		{object}	learnovasdk.AcceptInvitationResponse	"Enrollment"
//	@Failure		400		{object}	learnovasdk.ErrorResponse				"Unknown token"
//	@Failure		403		{object}	learnovasdk.ErrorResponse				"Revoked, or issued to another email"
//	@Failure		410		{object}	learnovasdk.ErrorResponse				"Expired"
//	@Security		BearerAuth
//	@Router			/v1/courses/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.AcceptInvitationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.InvitationService.Accept(r.Context(), id, req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Invitation accepted"
	if res.AlreadyAccepted {
		msg = "Invitation already accepted"
	}
	httpx.WriteJSON(w, http.StatusOK, learnovasdk.AcceptInvitationResponse{
		Message:         msg,
		CourseID:        res.CourseID,
		EnrollmentID:    res.EnrollmentID,
		Enrolled:        true,
		AlreadyAccepted: res.AlreadyAccepted,
		AcceptedAt:      res.AcceptedAt,
	})
}
