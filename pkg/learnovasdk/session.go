package learnovasdk

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Session performs authenticated requests with one access token. Tokens are
// not refreshed; log in again once a session expires or is revoked.
type Session struct {
	client      *Client
	accessToken string

	// User is the profile returned at login
	User UserResponse
}

// AccessToken returns the bearer token of the session.
func (s *Session) AccessToken() string { return s.accessToken }

func (s *Session) do(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	return s.client.doJSON(ctx, method, path, s.accessToken, in, out, expectedStatus, nil)
}

// ============================================================================
// Profile & settings
// ============================================================================

func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodPatch, "/v1/settings/profile", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword revokes every session, this one included.
func (s *Session) ChangePassword(ctx context.Context, current, next string) (*ChangePasswordResponse, error) {
	var out ChangePasswordResponse
	req := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := s.do(ctx, http.MethodPost, "/v1/settings/password", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) RequestAccountDeletion(ctx context.Context, password string) (*DeleteAccountResponse, error) {
	var out DeleteAccountResponse
	req := DeleteAccountRequest{CurrentPassword: password}
	if err := s.do(ctx, http.MethodPost, "/v1/settings/delete-account/request", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) ConfirmAccountDeletion(ctx context.Context, otp string) error {
	req := ConfirmDeleteAccountRequest{OTP: otp}
	return s.do(ctx, http.MethodPost, "/v1/settings/delete-account/confirm", req, nil, http.StatusOK)
}

// AssignRole sets another user's system role. Admin only.
func (s *Session) AssignRole(ctx context.Context, userID, role string) (*UserResponse, error) {
	var out UserResponse
	path := "/v1/admin/users/" + url.PathEscape(userID) + "/role"
	if err := s.do(ctx, http.MethodPut, path, AssignRoleRequest{Role: role}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Organizations
// ============================================================================

func (s *Session) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	var out CreateOrganizationResponse
	if err := s.do(ctx, http.MethodPost, "/v1/organizations", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out.Organization, nil
}

func (s *Session) ListOrganizations(ctx context.Context) ([]OrganizationResponse, error) {
	var out ListOrganizationsResponse
	if err := s.do(ctx, http.MethodGet, "/v1/organizations", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Organizations, nil
}

func (s *Session) ListJoinRequests(ctx context.Context, orgID, view string) (*JoinRequestsResponse, error) {
	var out JoinRequestsResponse
	path := fmt.Sprintf("/v1/organizations/%s/join-requests?view=%s", url.PathEscape(orgID), url.QueryEscape(view))
	if err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateMemberStatus(ctx context.Context, orgID, membershipID, status string) (*UpdateMemberStatusResponse, error) {
	var out UpdateMemberStatusResponse
	path := fmt.Sprintf("/v1/organizations/%s/members/%s", url.PathEscape(orgID), url.PathEscape(membershipID))
	if err := s.do(ctx, http.MethodPatch, path, UpdateMemberStatusRequest{Status: status}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Courses
// ============================================================================

func (s *Session) CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	var out CourseResponse
	if err := s.do(ctx, http.MethodPost, "/v1/courses", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) MyCourses(ctx context.Context) ([]CourseResponse, error) {
	var out ListCoursesResponse
	if err := s.do(ctx, http.MethodGet, "/v1/courses/my", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

func (s *Session) GetCourse(ctx context.Context, courseID string) (*CourseResponse, error) {
	var out CourseResponse
	if err := s.do(ctx, http.MethodGet, "/v1/courses/"+url.PathEscape(courseID), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Course invitations
// ============================================================================

func invitationsPath(courseID, suffix string) string {
	return "/v1/courses/" + url.PathEscape(courseID) + "/invitations" + suffix
}

// UploadEmails invites an explicit list of emails.
func (s *Session) UploadEmails(ctx context.Context, courseID string, emails []string) (*UploadInvitationsResponse, error) {
	var out UploadInvitationsResponse
	req := UploadInvitationsRequest{Emails: emails}
	if err := s.do(ctx, http.MethodPost, invitationsPath(courseID, "/upload"), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadRoster invites every email in an .xlsx or .csv roster. sheetName and
// emailColumn are optional hints.
func (s *Session) UploadRoster(
	ctx context.Context,
	courseID, filename string,
	data []byte,
	sheetName, emailColumn string,
) (*UploadInvitationsResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	for name, value := range map[string]string{"sheet_name": sheetName, "email_column": emailColumn} {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	resp, err := s.client.doRequest(ctx, http.MethodPost, invitationsPath(courseID, "/upload"), &buf,
		map[string]string{"Content-Type": mw.FormDataContentType()}, s.accessToken)
	if err != nil {
		return nil, err
	}

	var out UploadInvitationsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) SendInvitations(ctx context.Context, courseID string, req SendInvitationsRequest) (*SendInvitationsResponse, error) {
	var out SendInvitationsResponse
	if err := s.do(ctx, http.MethodPost, invitationsPath(courseID, "/send"), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvitations lists the course's invitations, optionally by status.
func (s *Session) ListInvitations(ctx context.Context, courseID, status string) (*ListInvitationsResponse, error) {
	var out ListInvitationsResponse
	path := invitationsPath(courseID, "")
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	if err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) RevokeInvitation(ctx context.Context, courseID, invitationID string) (*InvitationResponse, error) {
	var out InvitationResponse
	path := invitationsPath(courseID, "/"+url.PathEscape(invitationID)+"/revoke")
	if err := s.do(ctx, http.MethodPost, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvitation enrolls the caller with the raw token from an invite link.
func (s *Session) AcceptInvitation(ctx context.Context, token string) (*AcceptInvitationResponse, error) {
	var out AcceptInvitationResponse
	req := AcceptInvitationRequest{Token: token}
	if err := s.do(ctx, http.MethodPost, "/v1/courses/invitations/accept", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
