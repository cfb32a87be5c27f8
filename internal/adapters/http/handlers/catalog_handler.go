package handlers

import (
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles the student catalog endpoints
type CatalogHandler struct {
	catalog     *services.CatalogService
	enrollments *services.EnrollmentService
	query       *services.Query
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService, enrollments *services.EnrollmentService, query *services.Query) *CatalogHandler {
	return &CatalogHandler{
		catalog:     catalog,
		enrollments: enrollments,
		query:       query,
	}
}

// Browse returns one page of the active catalog
// @Summary Browse catalog
// @Description Search, filter, sort and paginate the active courses
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param search query string false "Matches title, code or description"
// @Param category query string false "Exact category"
// @Param sort query string false "title | date | level"
// @Param page query int false "1-based page index"
// @Success 200 {object} response.Response
// @Router /catalog [get]
func (h *CatalogHandler) Browse(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	courses, err := h.catalog.StudentCatalog(c.Context())
	if err != nil {
		return respondError(c, err, "Failed to load catalog")
	}

	view := h.query.View(courses, services.CatalogQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     services.SortKey(c.Query("sort")),
		Page:     c.QueryInt("page", 1),
	})

	enrolled, err := h.enrollments.List(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err, "Failed to load enrollments")
	}
	enrolledIDs := make([]int64, 0, len(enrolled))
	for _, e := range enrolled {
		enrolledIDs = append(enrolledIDs, e.CourseID())
	}

	return response.Paginated(c, "Catalog retrieved successfully", fiber.Map{
		"courses":     view.Courses,
		"categories":  view.Categories,
		"enrolledIds": enrolledIDs,
		"stats":       services.Stats(len(enrolled), view.Meta.Total),
	}, view.Meta)
}

// Get returns one active course
// @Summary Get catalog course
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /catalog/{id} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := courseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.catalog.Course(c.Context(), id)
	if err != nil {
		return respondError(c, err, "Failed to get course")
	}
	if !course.IsActive {
		return response.NotFound(c, "course not found")
	}

	return response.Success(c, "Course retrieved successfully", course)
}
