package http

import (
	"net/http"

	"github.com/learnova/learnova/internal/learnova/domain"
	"github.com/learnova/learnova/internal/learnova/service"
	"github.com/learnova/learnova/pkg/httpx"
	"github.com/learnova/learnova/pkg/learnovasdk"
)

type CoursesHandler struct {
	CourseService *service.CourseService
}

// HandleCreate handles POST /v1/courses
//
//	@Summary		Create course
//	@Description	Creates a draft course. Organization courses require the caller to be an accepted member of the organization.
//	@Tags			Courses
//	@Accept			json
//	@Produce		json
//	@Param			request	body		learnovasdk.CreateCourseRequest	true	"Course"
//	@Success		201		{object}	learnovasdk.CourseResponse		"Created course"
//	@Failure		400		{object}	learnovasdk.ErrorResponse		"Validation failed"
//	@Failure		403		{object}	learnovasdk.ErrorResponse		"Caller cannot create courses here"
//	@Security		BearerAuth
//	@Router			/v1/courses [post].
func (h *CoursesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req learnovasdk.CreateCourseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	visibility := domain.Visibility(req.VisibilityLevel)
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}

	course, err := h.CourseService.CreateCourse(r.Context(), id, service.CreateCourseInput{
		CourseType:                 domain.CourseType(req.CourseType),
		OrganizationID:             req.OrganizationID,
		Title:                      req.Title,
		Description:                req.Description,
		CoverImageURL:              req.CoverImageURL,
		BannerImageURL:             req.BannerImageURL,
		IsPublic:                   req.IsPublic,
		Visibility:                 visibility,
		RequiresEnrollmentApproval: req.RequiresEnrollmentApproval,
		LearningOutcomes:           req.LearningOutcomes,
		Tags:                       req.Tags,
		Category:                   req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCourseResponse(course))
}

// HandleMine handles GET /v1/courses/my
//
//	@Summary		My courses
//	@Description	Courses the caller created, or for students the courses they are enrolled in.
//	@Tags			Courses
//	@Produce		json
//	@Success		200	{object}	learnovasdk.ListCoursesResponse	"Courses"
//	@Security		BearerAuth
//	@Router			/v1/courses/my [get].
func (h *CoursesHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	courses, err := h.CourseService.MyCourses(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := learnovasdk.ListCoursesResponse{Courses: make([]learnovasdk.CourseResponse, len(courses))}
	for i, c := range courses {
		resp.Courses[i] = toCourseResponse(c)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/courses/{id}
//
//	@Summary		Get course
//	@Tags			Courses
//	@Produce		json
//	@Param			id	path		string						true	"Course ID"
//	@Success		200	{object}	learnovasdk.CourseResponse	"Course"
//	@Failure		403	{object}	learnovasdk.ErrorResponse	"Course is private"
//	@Failure		404	{object}	learnovasdk.ErrorResponse	"Course not found"
//	@Security		BearerAuth
//	@Router			/v1/courses/{id} [get].
func (h *CoursesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	course, err := h.CourseService.GetCourse(r.Context(), id, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCourseResponse(course))
}
