package http

import (
	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

func toUserResponse(u domain.User) learnovasdk.UserResponse {
	return learnovasdk.UserResponse{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		AvatarURL:       u.AvatarURL,
		SystemRole:      string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

func toOrganizationResponse(o domain.Organization) learnovasdk.OrganizationResponse {
	return learnovasdk.OrganizationResponse{
		ID:                 o.ID,
		Name:               o.Name,
		Description:        o.Description,
		LogoURL:            o.LogoURL,
		OwnerID:            o.OwnerID,
		SubscriptionPlanID: o.SubscriptionPlanID,
		InviteCode:         o.InviteCode,
		SubscriptionStatus: o.SubscriptionStatus,
		CreatedAt:          o.CreatedAt,
	}
}

func toMemberResponse(m domain.MemberView) learnovasdk.MemberResponse {
	return learnovasdk.MemberResponse{
		MembershipID: m.ID,
		UserID:       m.UserID,
		FullName:     m.FullName,
		Email:        m.Email,
		AvatarURL:    m.AvatarURL,
		SystemRole:   string(m.SystemRole),
		Status:       string(m.Status),
		Role:         m.Role,
		JoinedAt:     m.JoinedAt,
		CreatedAt:    m.CreatedAt,
	}
}

// nonNil keeps empty lists as [] on the wire.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func toCourseResponse(c domain.Course) learnovasdk.CourseResponse {
	return learnovasdk.CourseResponse{
		ID:                         c.ID,
		Title:                      c.Title,
		Description:                c.Description,
		CourseType:                 string(c.CourseType),
		OrganizationID:             c.OrganizationID,
		CreatedBy:                  c.CreatedBy,
		IsPublic:                   c.IsPublic,
		VisibilityLevel:            string(c.Visibility),
		RequiresEnrollmentApproval: c.RequiresEnrollmentApproval,
		CoverImageURL:              c.CoverImageURL,
		BannerImageURL:             c.BannerImageURL,
		Category:                   c.Category,
		Tags:                       nonNil(c.Tags),
		LearningOutcomes:           nonNil(c.LearningOutcomes),
		Status:                     c.Status,
		EnrollmentCount:            c.EnrollmentCount,
		CreatedAt:                  c.CreatedAt,
	}
}

func toInvitationResponse(inv domain.Invitation) learnovasdk.InvitationResponse {
	return learnovasdk.InvitationResponse{
		ID:             inv.ID,
		CourseID:       inv.CourseID,
		InvitedEmail:   inv.InvitedEmail,
		InvitedUserID:  inv.InvitedUserID,
		Status:         string(inv.Status),
		TokenExpiresAt: inv.TokenExpiresAt,
		SentAt:         inv.SentAt,
		LastSentAt:     inv.LastSentAt,
		SendCount:      inv.SendCount,
		AcceptedAt:     inv.AcceptedAt,
		RevokedAt:      inv.RevokedAt,
		CreatedAt:      inv.CreatedAt,
	}
}

func toSendResponse(r service.SendResult) learnovasdk.SendInvitationsResponse {
	return learnovasdk.SendInvitationsResponse{
		CourseID:            r.CourseID,
		TargetEmail:         r.TargetEmail,
		Attempted:           r.Attempted,
		Sent:                r.Sent,
		Failed:              r.Failed,
		SkippedNotEligible:  r.SkippedNotEligible,
		LastSentAt:          r.LastSentAt,
		SampleFailedEmails:  nonNil(r.SampleFailedEmails),
		SampleSkippedEmails: nonNil(r.SampleSkippedEmails),
	}
}

func toUploadResponse(r service.UploadResult) learnovasdk.UploadInvitationsResponse {
	resp := learnovasdk.UploadInvitationsResponse{
		CourseID:             r.CourseID,
		TotalRows:            r.TotalRows,
		ExtractedEmails:      r.ExtractedEmails,
		Inserted:             r.Inserted,
		SkippedExisting:      r.SkippedExisting,
		InvalidEmails:        r.InvalidEmails,
		SampleInvalidEmails:  nonNil(r.SampleInvalidEmails),
		SampleExistingEmails: nonNil(r.SampleExistingEmails),
		ArchiveKey:           r.ArchiveKey,
	}
	if r.Send != nil {
		send := toSendResponse(*r.Send)
		resp.Send = &send
	}
	return resp
}
