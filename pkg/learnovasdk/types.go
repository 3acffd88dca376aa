package learnovasdk

import "time"

// ============================================================================
// Envelopes
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a stable machine readable code (e.g. "invalid_token")
	Error string `json:"error"`

	// ErrorDescription is a human readable explanation
	ErrorDescription string `json:"error_description"`
}

// MessageResponse is returned by endpoints that only acknowledge a request.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// ============================================================================
// Bootstrap & Admin
// ============================================================================

// BootstrapRequest creates the first administrator of a fresh deployment.
type BootstrapRequest struct {
	AdminEmail    string `json:"admin_email"`
	AdminFullName string `json:"admin_full_name"`
	AdminPassword string `json:"admin_password"`
}

type BootstrapResponse struct {
	AdminUserID string `json:"admin_user_id"`
}

type AssignRoleRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Auth
// ============================================================================

type RegisterRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code,omitempty"`
}

// UserResponse is the public profile of a user.
type UserResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	AvatarURL       *string   `json:"avatar_url"`
	SystemRole      string    `json:"system_role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// EmailRequest carries a single email, for resend and forgot-password.
type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ============================================================================
// Settings
// ============================================================================

// UpdateProfileRequest updates the caller's profile. Nil fields are left
// alone; an empty avatar_url clears it.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ChangePasswordResponse struct {
	Message               string `json:"message"`
	EmailNotificationSent bool   `json:"email_notification_sent"`
}

type DeleteAccountRequest struct {
	CurrentPassword string `json:"current_password"`
}

type DeleteAccountResponse struct {
	Message   string `json:"message"`
	EmailSent bool   `json:"email_sent"`
}

type ConfirmDeleteAccountRequest struct {
	OTP string `json:"otp"`
}

// ============================================================================
// Organizations
// ============================================================================

type CreateOrganizationRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

type OrganizationResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	LogoURL            *string   `json:"logo_url"`
	OwnerID            string    `json:"owner_id"`
	SubscriptionPlanID string    `json:"subscription_plan_id"`
	InviteCode         string    `json:"invite_code"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

type CreateOrganizationResponse struct {
	Organization OrganizationResponse `json:"organization"`
}

type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// MemberResponse is a membership joined with the member's profile.
type MemberResponse struct {
	MembershipID string     `json:"membership_id"`
	UserID       string     `json:"user_id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	AvatarURL    *string    `json:"avatar_url"`
	SystemRole   string     `json:"system_role"`
	Status       string     `json:"status"`
	Role         string     `json:"role"`
	JoinedAt     *time.Time `json:"joined_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

type JoinRequestsResponse struct {
	OrganizationID string           `json:"organization_id"`
	View           string           `json:"view"`
	Count          int              `json:"count"`
	Members        []MemberResponse `json:"members"`
}

type UpdateMemberStatusRequest struct {
	Status string `json:"status"`
}

type UpdateMemberStatusResponse struct {
	MembershipID      string `json:"membership_id"`
	UserID            string `json:"user_id"`
	OrganizationID    string `json:"organization_id"`
	OldStatus         string `json:"old_status"`
	NewStatus         string `json:"new_status"`
	NotificationSent  bool   `json:"notification_sent"`
	NotificationError string `json:"notification_error,omitempty"`
}

// ============================================================================
// Courses
// ============================================================================

type CreateCourseRequest struct {
	CourseType                 string   `json:"course_type"`
	OrganizationID             *string  `json:"organization_id,omitempty"`
	Title                      string   `json:"title"`
	Description                string   `json:"description,omitempty"`
	CoverImageURL              *string  `json:"cover_image_url,omitempty"`
	BannerImageURL             *string  `json:"banner_image_url,omitempty"`
	IsPublic                   bool     `json:"is_public"`
	VisibilityLevel            string   `json:"visibility_level"`
	RequiresEnrollmentApproval bool     `json:"requires_enrollment_approval"`
	LearningOutcomes           []string `json:"learning_outcomes,omitempty"`
	Tags                       []string `json:"tags,omitempty"`
	Category                   *string  `json:"category,omitempty"`
}

type CourseResponse struct {
	ID                         string    `json:"id"`
	Title                      string    `json:"title"`
	Description                string    `json:"description"`
	CourseType                 string    `json:"course_type"`
	OrganizationID             *string   `json:"organization_id"`
	CreatedBy                  string    `json:"created_by"`
	IsPublic                   bool      `json:"is_public"`
	VisibilityLevel            string    `json:"visibility_level"`
	RequiresEnrollmentApproval bool      `json:"requires_enrollment_approval"`
	CoverImageURL              *string   `json:"cover_image_url"`
	BannerImageURL             *string   `json:"banner_image_url"`
	Category                   *string   `json:"category"`
	Tags                       []string  `json:"tags"`
	LearningOutcomes           []string  `json:"learning_outcomes"`
	Status                     string    `json:"status"`
	EnrollmentCount            int       `json:"enrollment_count"`
	CreatedAt                  time.Time `json:"created_at"`
}

type ListCoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

// ============================================================================
// Course invitations
// ============================================================================

// UploadInvitationsRequest is the JSON alternative to a multipart roster.
type UploadInvitationsRequest struct {
	Emails []string `json:"emails"`
}

type UploadInvitationsResponse struct {
	CourseID             string                   `json:"course_id"`
	TotalRows            int                      `json:"total_rows"`
	ExtractedEmails      int                      `json:"extracted_emails"`
	Inserted             int                      `json:"inserted"`
	SkippedExisting      int                      `json:"skipped_existing"`
	InvalidEmails        int                      `json:"invalid_emails"`
	SampleInvalidEmails  []string                 `json:"sample_invalid_emails"`
	SampleExistingEmails []string                 `json:"sample_existing_emails"`
	ArchiveKey           string                   `json:"archive_key,omitempty"`
	Send                 *SendInvitationsResponse `json:"send,omitempty"`
}

type SendInvitationsRequest struct {
	// Email targets one invitation; empty sends to every eligible one
	Email string `json:"email,omitempty"`

	// IncludeExpired also rotates expired invitations. Defaults to true.
	IncludeExpired *bool `json:"include_expired,omitempty"`
}

type SendInvitationsResponse struct {
	CourseID            string     `json:"course_id"`
	TargetEmail         string     `json:"target_email,omitempty"`
	Attempted           int        `json:"attempted"`
	Sent                int        `json:"sent"`
	Failed              int        `json:"failed"`
	SkippedNotEligible  int        `json:"skipped_not_eligible"`
	LastSentAt          *time.Time `json:"last_sent_at"`
	SampleFailedEmails  []string   `json:"sample_failed_emails"`
	SampleSkippedEmails []string   `json:"sample_skipped_emails"`
}

type InvitationResponse struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"course_id"`
	InvitedEmail   string     `json:"invited_email"`
	InvitedUserID  *string    `json:"invited_user_id"`
	Status         string     `json:"status"`
	TokenExpiresAt *time.Time `json:"token_expires_at"`
	SentAt         *time.Time `json:"sent_at"`
	LastSentAt     *time.Time `json:"last_sent_at"`
	SendCount      int        `json:"send_count"`
	AcceptedAt     *time.Time `json:"accepted_at"`
	RevokedAt      *time.Time `json:"revoked_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ListInvitationsResponse struct {
	CourseID    string               `json:"course_id"`
	Count       int                  `json:"count"`
	Invitations []InvitationResponse `json:"invitations"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

type AcceptInvitationResponse struct {
	Message         string     `json:"message"`
	CourseID        string     `json:"course_id"`
	EnrollmentID    string     `json:"enrollment_id,omitempty"`
	Enrolled        bool       `json:"enrolled"`
	AlreadyAccepted bool       `json:"already_accepted"`
	AcceptedAt      *time.Time `json:"accepted_at"`
}
