package handlers

import (
	"fmt"

	"course-portal/internal/core/domain"
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Course list filters for the faculty view
const (
	statusActive  = "active"
	statusDeleted = "deleted"
	statusAll     = "all"
)

// CourseHandler handles the faculty course management endpoints
type CourseHandler struct {
	catalog     *services.CatalogService
	enrollments *services.EnrollmentService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalog *services.CatalogService, enrollments *services.EnrollmentService) *CourseHandler {
	return &CourseHandler{
		catalog:     catalog,
		enrollments: enrollments,
	}
}

// List returns the faculty member's courses
// @Summary List own courses
// @Description List the faculty member's courses; status is active (default), deleted or all
// @Tags Faculty Courses
// @Produce json
// @Security BearerAuth
// @Param status query string false "active | deleted | all"
// @Success 200 {object} response.Response
// @Router /faculty/courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courses, err := h.catalog.List(c.Context(), *user)
	if err != nil {
		return respondError(c, err, "Failed to list courses")
	}

	active, deleted := services.Active(courses), services.Deleted(courses)
	data := fiber.Map{
		"activeCount":  len(active),
		"deletedCount": len(deleted),
	}
	switch c.Query("status", statusActive) {
	case statusActive:
		data["courses"] = active
	case statusDeleted:
		data["courses"] = deleted
	case statusAll:
		data["courses"] = courses
	default:
		return response.BadRequest(c, "status must be active, deleted or all")
	}

	return response.Success(c, "Courses retrieved successfully", data)
}

// Get returns one of the faculty member's courses
// @Summary Get own course
// @Tags Faculty Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /faculty/courses/{id} [get]
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.catalog.Get(c.Context(), *user, id)
	if err != nil {
		return respondError(c, err, "Failed to get course")
	}

	return response.Success(c, "Course retrieved successfully", course)
}

// Create adds a course
// @Summary Create course
// @Tags Faculty Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.CourseDraft true "Course"
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /faculty/courses [post]
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var draft domain.CourseDraft
	if err := c.BodyParser(&draft); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.catalog.Create(c.Context(), *user, draft)
	if err != nil {
		return respondError(c, err, "Failed to create course")
	}

	return response.Created(c, "Course created successfully", course)
}

// Update replaces the editable fields of a course
// @Summary Update course
// @Tags Faculty Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body domain.CourseDraft true "Course"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /faculty/courses/{id} [put]
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	var draft domain.CourseDraft
	if err := c.BodyParser(&draft); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	course, err := h.catalog.Update(c.Context(), *user, id, draft)
	if err != nil {
		return respondError(c, err, "Failed to update course")
	}

	return response.Success(c, "Course updated successfully", course)
}

// SoftDelete moves a course to the deleted list
// @Summary Soft delete course
// @Description Requires X-Confirm: true, otherwise returns 428 with a confirmation request
// @Tags Faculty Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param X-Confirm header bool false "Confirm the action"
// @Success 200 {object} response.Response
// @Failure 428 {object} response.Response
// @Router /faculty/courses/{id} [delete]
func (h *CourseHandler) SoftDelete(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if !confirmed(c) {
		course, err := h.catalog.Get(c.Context(), *user, id)
		if err != nil {
			return respondError(c, err, "Failed to delete course")
		}
		return response.ConfirmationRequired(c, domain.ConfirmationRequest{
			Action:   "soft_delete",
			CourseID: id,
			Message:  fmt.Sprintf("Move \"%s\" to deleted courses? You can restore it later.", course.Title),
		})
	}

	course, err := h.catalog.SoftDelete(c.Context(), *user, id)
	if err != nil {
		return respondError(c, err, "Failed to delete course")
	}

	return response.Success(c, "Course deleted", course)
}

// Restore brings a soft-deleted course back
// @Summary Restore course
// @Tags Faculty Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Router /faculty/courses/{id}/restore [post]
func (h *CourseHandler) Restore(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.catalog.Restore(c.Context(), *user, id)
	if err != nil {
		return respondError(c, err, "Failed to restore course")
	}

	return response.Success(c, "Course restored", course)
}

// PermanentlyDelete removes a course for good
// @Summary Permanently delete course
// @Description Irreversible. Requires X-Confirm: true, otherwise returns 428 with a confirmation request
// @Tags Faculty Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param X-Confirm header bool false "Confirm the action"
// @Success 200 {object} response.Response
// @Failure 428 {object} response.Response
// @Router /faculty/courses/{id}/permanent [delete]
func (h *CourseHandler) PermanentlyDelete(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	if !confirmed(c) {
		course, err := h.catalog.Get(c.Context(), *user, id)
		if err != nil {
			return respondError(c, err, "Failed to delete course")
		}
		return response.ConfirmationRequired(c, domain.ConfirmationRequest{
			Action:   "permanent_delete",
			CourseID: id,
			Message:  fmt.Sprintf("Permanently delete \"%s\"? This cannot be undone.", course.Title),
		})
	}

	if err := h.catalog.PermanentlyDelete(c.Context(), *user, id); err != nil {
		return respondError(c, err, "Failed to delete course")
	}

	return response.Success(c, "Course permanently deleted", nil)
}

// Roster lists the students enrolled in a course
// @Summary Course roster
// @Tags Faculty Courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /faculty/courses/{id}/enrollments [get]
func (h *CourseHandler) Roster(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.catalog.Get(c.Context(), *user, id)
	if err != nil {
		return respondError(c, err, "Failed to get roster")
	}

	roster, err := h.enrollments.Roster(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to get roster")
	}

	return response.Success(c, "Roster retrieved successfully", fiber.Map{
		"course":      course,
		"enrollments": roster,
	})
}

// Categories returns the fixed course category list
// @Summary Course categories
// @Tags Faculty Courses
// @Produce json
// @Success 200 {object} response.Response
// @Router /faculty/categories [get]
func (h *CourseHandler) Categories(c *fiber.Ctx) error {
	return response.Success(c, "Categories retrieved successfully", domain.Categories)
}
