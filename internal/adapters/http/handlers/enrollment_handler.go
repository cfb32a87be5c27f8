package handlers

import (
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentHandler handles the student enrollment endpoints
type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollments *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List returns the student's enrollments
// @Summary My enrollments
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	enrollments, err := h.enrollments.List(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err, "Failed to list enrollments")
	}

	return response.Success(c, "Enrollments retrieved successfully", enrollments)
}

// Status reports whether the student is enrolled in a course
// @Summary Enrollment status
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Status(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	enrolled, err := h.enrollments.IsEnrolled(c.Context(), user.ID, id)
	if err != nil {
		return respondError(c, err, "Failed to check enrollment")
	}

	return response.Success(c, "Enrollment status", fiber.Map{
		"courseId": id,
		"enrolled": enrolled,
	})
}

// Enroll registers the student for a course
// @Summary Enroll
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /enrollments/{id} [post]
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	enrollment, err := h.enrollments.Enroll(c.Context(), *user, id)
	if err != nil {
		return respondError(c, err, "Failed to enroll")
	}

	return response.Created(c, "Enrolled in "+enrollment.Course.Title, enrollment)
}

// Unenroll withdraws the student from a course
// @Summary Unenroll
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Unenroll(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.enrollments.Unenroll(c.Context(), user.ID, id); err != nil {
		return respondError(c, err, "Failed to unenroll")
	}

	return response.Success(c, "Unenrolled successfully", nil)
}
