package handlers

import (
	"bytes"

	"course-portal/internal/core/domain"
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles the faculty analytics endpoints
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Report returns enrollment analytics for the faculty member's courses
// @Summary Enrollment analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param window query string false "all | week | month | semester"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /faculty/analytics [get]
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	report, err := h.report(c)
	if err != nil {
		return respondError(c, err, "Failed to build analytics")
	}

	return response.Success(c, "Analytics retrieved successfully", report)
}

// Export downloads the analytics report as CSV
// @Summary Export analytics CSV
// @Tags Analytics
// @Produce text/csv
// @Security BearerAuth
// @Param window query string false "all | week | month | semester"
// @Success 200 {file} file
// @Router /faculty/analytics/export [get]
func (h *AnalyticsHandler) Export(c *fiber.Ctx) error {
	report, err := h.report(c)
	if err != nil {
		return respondError(c, err, "Failed to build analytics")
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, report); err != nil {
		return respondError(c, err, "Failed to export analytics")
	}

	c.Attachment(services.CSVFilename(report.Window, report.GeneratedAt))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(buf.Bytes())
}

func (h *AnalyticsHandler) report(c *fiber.Ctx) (*services.Report, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	window, err := services.ParseWindow(c.Query("window"))
	if err != nil {
		return nil, err
	}

	return h.analytics.Report(c.Context(), *user, window)
}
