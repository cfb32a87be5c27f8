package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"course-portal/internal/adapters/http/middleware"
	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HeaderConfirm carries the caller's answer to a confirmation request
const HeaderConfirm = "X-Confirm"

// respondError maps a service error to its HTTP response. fallback is the
// message shown for unexpected errors.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var ve *domain.ValidationError

	switch domain.KindOf(err) {
	case domain.KindValidation:
		errors.As(err, &ve)
		return response.ValidationFailed(c, ve.Fields)
	case domain.KindAuth:
		return response.Unauthorized(c, err.Error())
	case domain.KindForbidden:
		return response.Forbidden(c, err.Error())
	case domain.KindDuplicate, domain.KindBusiness:
		return response.Conflict(c, err.Error())
	case domain.KindNotFound:
		return response.NotFound(c, err.Error())
	default:
		log.Printf("❌ %s: %v", fallback, err)
		return response.InternalServerError(c, fallback)
	}
}

// currentUser returns the user set by the auth middleware
func currentUser(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(middleware.LocalUser).(*domain.User)
	return user, ok && user != nil
}

// courseID parses the :id route parameter
func courseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// confirmed reports whether the request carries X-Confirm: true
func confirmed(c *fiber.Ctx) bool {
	ok, _ := strconv.ParseBool(strings.TrimSpace(c.Get(HeaderConfirm)))
	return ok
}
