package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/store"
	"github.com/learnova/learnova/pkg/idx"
	"github.com/learnova/learnova/pkg/slogx"
)

type CourseService struct {
	Store store.Store
	Clock Clock
}

type CreateCourseInput struct {
	CourseType                 domain.CourseType
	OrganizationID             *string
	Title                      string
	Description                string
	CoverImageURL              *string
	BannerImageURL             *string
	IsPublic                   bool
	Visibility                 domain.Visibility
	RequiresEnrollmentApproval bool
	LearningOutcomes           []string
	Tags                       []string
	Category                   *string
}

func (in CreateCourseInput) validate() error {
	switch in.CourseType {
	case domain.CourseOrganization:
		if in.OrganizationID == nil || *in.OrganizationID == "" {
			return invalidf("organization_id is required when course_type=organization")
		}
	case domain.CourseIndividual:
		if in.OrganizationID != nil && *in.OrganizationID != "" {
			return invalidf("organization_id must be empty when course_type=individual")
		}
	default:
		return invalidf("course_type must be organization or individual")
	}
	if !in.Visibility.Valid() {
		return invalidf("visibility_level must be private, public or unlisted")
	}
	if !lengthBetween(strings.TrimSpace(in.Title), 1, 255) {
		return invalidf("title must be 1 to 255 characters")
	}
	for name, v := range map[string]*string{"cover_image_url": in.CoverImageURL, "banner_image_url": in.BannerImageURL} {
		if v != nil && utf8.RuneCountInString(*v) > 512 {
			return invalidf("%s must be at most 512 characters", name)
		}
	}
	if in.Category != nil && utf8.RuneCountInString(*in.Category) > 100 {
		return invalidf("category must be at most 100 characters")
	}
	return nil
}

// CreateCourse creates a draft course. Organization courses require the
// instructor to be an accepted member of that organization.
func (s *CourseService) CreateCourse(ctx context.Context, id domain.Identity, in CreateCourseInput) (domain.Course, error) {
	l := slogx.FromContext(ctx)

	if id.Role != domain.RoleInstructor {
		return domain.Course{}, describe(ErrForbidden, "Only instructors can create courses")
	}
	if err := in.validate(); err != nil {
		return domain.Course{}, err
	}

	now := s.Clock.now()
	course := domain.Course{
		ID:                         idx.NewAt(now).String(),
		CreatedBy:                  id.UserID,
		Title:                      strings.TrimSpace(in.Title),
		Description:                in.Description,
		CoverImageURL:              in.CoverImageURL,
		BannerImageURL:             in.BannerImageURL,
		CourseType:                 in.CourseType,
		IsPublic:                   in.IsPublic,
		Visibility:                 in.Visibility,
		RequiresEnrollmentApproval: in.RequiresEnrollmentApproval,
		Category:                   in.Category,
		Tags:                       in.Tags,
		LearningOutcomes:           in.LearningOutcomes,
		Status:                     domain.CourseStatusDraft,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	if in.CourseType == domain.CourseOrganization {
		course.OrganizationID = in.OrganizationID
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if course.OrganizationID != nil {
			m, err := tx.Members().GetMembershipByUser(ctx, *course.OrganizationID, id.UserID)
			if errors.Is(err, store.ErrNotFound) || (err == nil && m.Status != domain.MembershipAccepted) {
				return describe(ErrForbidden, "You are not an active member of this organization")
			}
			if err != nil {
				return err
			}
		}
		return tx.Courses().Create(ctx, course)
	})
	if err != nil {
		return domain.Course{}, err
	}

	l.Info("course created",
		slog.String("course_id", course.ID),
		slog.String("course_type", string(course.CourseType)),
	)
	return course, nil
}

// MyCourses lists the courses an instructor created, or the courses anyone
// else is enrolled in.
func (s *CourseService) MyCourses(ctx context.Context, id domain.Identity) ([]domain.Course, error) {
	if id.Role == domain.RoleInstructor {
		return s.Store.Courses().ListByCreator(ctx, id.UserID)
	}
	return s.Store.Courses().ListByStudent(ctx, id.UserID)
}

// GetCourse returns a course visible to the caller: its creator, an
// enrolled student, or anyone when the course is public.
func (s *CourseService) GetCourse(ctx context.Context, id domain.Identity, courseID string) (domain.Course, error) {
	course, err := s.Store.Courses().GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, describe(ErrNotFound, "Course not found")
		}
		return domain.Course{}, err
	}
	if course.IsPublic || course.CreatedBy == id.UserID {
		return course, nil
	}

	_, err = s.Store.Enrollments().GetEnrollment(ctx, courseID, id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Course{}, describe(ErrNotFound, "Course not found")
	}
	if err != nil {
		return domain.Course{}, err
	}
	return course, nil
}
