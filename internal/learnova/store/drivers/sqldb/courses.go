package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/learnova/learnova/internal/learnova/domain"
)

type coursesRepo struct {
	q *queries
}

const courseColumns = `c.id, c.organization_id, c.created_by, c.title, c.description,
	c.cover_image_url, c.banner_image_url, c.course_type, c.is_public, c.visibility_level,
	c.requires_enrollment_approval, c.category, c.tags, c.learning_outcomes, c.status,
	c.enrollment_count, c.created_at, c.updated_at`

func scanCourse(row scanner) (domain.Course, error) {
	var (
		c              domain.Course
		orgID          sql.NullString
		cover, banner  sql.NullString
		category       sql.NullString
		courseType     string
		visibility     string
		tags, outcomes string
	)
	err := row.Scan(
		&c.ID, &orgID, &c.CreatedBy, &c.Title, &c.Description,
		&cover, &banner, &courseType, &c.IsPublic, &visibility,
		&c.RequiresEnrollmentApproval, &category, &tags, &outcomes, &c.Status,
		&c.EnrollmentCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Course{}, mapErr(err)
	}
	c.OrganizationID = stringPtr(orgID)
	c.CoverImageURL = stringPtr(cover)
	c.BannerImageURL = stringPtr(banner)
	c.Category = stringPtr(category)
	c.CourseType = domain.CourseType(courseType)
	c.Visibility = domain.Visibility(visibility)
	if c.Tags, err = decodeList(tags); err != nil {
		return domain.Course{}, err
	}
	if c.LearningOutcomes, err = decodeList(outcomes); err != nil {
		return domain.Course{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return c, nil
}

// encodeList stores a string list as a JSON array; nil becomes "[]".
func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *coursesRepo) Create(ctx context.Context, c domain.Course) error {
	tags, err := encodeList(c.Tags)
	if err != nil {
		return err
	}
	outcomes, err := encodeList(c.LearningOutcomes)
	if err != nil {
		return err
	}

	_, err = r.q.exec(ctx, `
		INSERT INTO courses (id, organization_id, created_by, title, description,
			cover_image_url, banner_image_url, course_type, is_public, visibility_level,
			requires_enrollment_approval, category, tags, learning_outcomes, status,
			enrollment_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID, nullString(c.OrganizationID), c.CreatedBy, c.Title, c.Description,
		nullString(c.CoverImageURL), nullString(c.BannerImageURL), string(c.CourseType), c.IsPublic,
		string(c.Visibility), c.RequiresEnrollmentApproval, nullString(c.Category), tags, outcomes,
		c.Status, c.EnrollmentCount, c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	return err
}

func (r *coursesRepo) GetByID(ctx context.Context, id string) (domain.Course, error) {
	return scanCourse(r.q.queryRow(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
}

func (r *coursesRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Course, error) {
	return r.list(ctx, `
		SELECT `+courseColumns+` FROM courses c
		WHERE c.created_by = $1
		ORDER BY c.created_at DESC, c.id DESC`,
		userID,
	)
}

func (r *coursesRepo) ListByStudent(ctx context.Context, userID string) ([]domain.Course, error) {
	return r.list(ctx, `
		SELECT `+courseColumns+` FROM courses c
		JOIN course_enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1
		ORDER BY e.enrolled_at DESC, c.id DESC`,
		userID,
	)
}

func (r *coursesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := r.q.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *coursesRepo) IncrementEnrollmentCount(ctx context.Context, courseID string, now time.Time) error {
	return r.q.execOne(ctx, `
		UPDATE courses SET enrollment_count = enrollment_count + 1, updated_at = $1
		WHERE id = $2`,
		now.UTC(), courseID,
	)
}

type enrollmentsRepo struct {
	q *queries
}

func (r *enrollmentsRepo) Enroll(ctx context.Context, e domain.Enrollment) (string, bool, error) {
	var id string
	err := r.q.queryRow(ctx, `
		INSERT INTO course_enrollments (id, course_id, student_id, status, enrollment_type, enrolled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, course_id) DO NOTHING
		RETURNING id`,
		e.ID, e.CourseID, e.StudentID, e.Status, e.EnrollmentType, e.EnrolledAt.UTC(),
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, mapErr(err)
	}

	existing, err := r.GetEnrollment(ctx, e.CourseID, e.StudentID)
	if err != nil {
		return "", false, err
	}
	return existing.ID, false, nil
}

func (r *enrollmentsRepo) GetEnrollment(ctx context.Context, courseID, studentID string) (domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.q.queryRow(ctx, `
		SELECT id, course_id, student_id, status, enrollment_type, enrolled_at
		FROM course_enrollments
		WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID,
	).Scan(&e.ID, &e.CourseID, &e.StudentID, &e.Status, &e.EnrollmentType, &e.EnrolledAt)
	if err != nil {
		return domain.Enrollment{}, mapErr(err)
	}
	e.EnrolledAt = e.EnrolledAt.UTC()
	return e, nil
}
