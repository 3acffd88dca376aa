package domain

import "time"

type CourseType string

const (
	CourseIndividual   CourseType = "individual"
	CourseOrganization CourseType = "organization"
)

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic || v == VisibilityUnlisted
}

const CourseStatusDraft = "draft"

type Course struct {
	ID                         string
	OrganizationID             *string
	CreatedBy                  string
	Title                      string
	Description                string
	CoverImageURL              *string
	BannerImageURL             *string
	CourseType                 CourseType
	IsPublic                   bool
	Visibility                 Visibility
	RequiresEnrollmentApproval bool
	Category                   *string
	Tags                       []string
	LearningOutcomes           []string
	Status                     string
	EnrollmentCount            int
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

const (
	EnrollmentActive  = "active"
	EnrollmentInvited = "invited"
)

type Enrollment struct {
	ID             string
	CourseID       string
	StudentID      string
	Status         string
	EnrollmentType string
	EnrolledAt     time.Time
}
