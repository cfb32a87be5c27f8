package middleware

import (
	"strings"

	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LocalUser is the Locals key holding the authenticated *domain.User
const LocalUser = "user"

// SessionReader is the part of the session service the middleware reads
type SessionReader interface {
	Current() domain.Session
	HasAnyRole(roles ...domain.Role) bool
}

// AuthMiddleware requires an authenticated session and, when the client
// presents a token, that it is the session's current access token
func AuthMiddleware(session SessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current := session.Current()
		if !current.Authenticated() {
			return response.Unauthorized(c, "Please log in")
		}

		if token := accessToken(c); token != "" && token != current.AccessToken {
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUser, current.User)
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(session SessionReader, allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(LocalUser).(*domain.User); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !session.HasAnyRole(allowedRoles...) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// StudentOnly middleware allows only the student role
func StudentOnly(session SessionReader) fiber.Handler {
	return RoleMiddleware(session, domain.RoleStudent)
}

// FacultyOnly middleware allows only the faculty role
func FacultyOnly(session SessionReader) fiber.Handler {
	return RoleMiddleware(session, domain.RoleFaculty)
}

// accessToken reads the token from the cookie first, then the Authorization header
func accessToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
