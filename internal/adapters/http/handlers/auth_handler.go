package handlers

import (
	"errors"
	"time"

	"course-portal/internal/config"
	"course-portal/internal/core/domain"
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	session *services.SessionService
	cfg     *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(session *services.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		session: session,
		cfg:     cfg,
	}
}

// Register handles user registration
// @Summary Register new user
// @Description Register a student or faculty account and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	session, err := h.session.Register(c.Context(), input)
	if err != nil {
		return respondError(c, err, "Failed to register user")
	}

	h.setAuthCookies(c, session.AccessToken, session.RefreshToken)

	return response.Created(c, "User registered successfully", session)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate against the account registry and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	session, err := h.session.Login(c.Context(), input)
	if err != nil {
		return respondError(c, err, "Failed to login")
	}

	h.setAuthCookies(c, session.AccessToken, session.RefreshToken)

	return response.Success(c, "Login successful", session)
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Mint a new access token; without a refresh token the session is logged out
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	token, err := h.session.RefreshAccessToken(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNoRefreshToken) || errors.Is(err, domain.ErrNotAuthenticated) {
			h.clearAuthCookies(c)
		}
		return respondError(c, err, "Failed to refresh token")
	}

	h.setAuthCookies(c, token, h.session.Current().RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"accessToken": token,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Clear the session and its persisted copy
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.session.Logout(c.Context()); err != nil {
		return respondError(c, err, "Failed to logout")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// Status reports the session state
// @Summary Session status
// @Description Whether a session is authenticated and whether a login, register or refresh is in flight
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	current := h.session.Current()

	return response.Success(c, "Session status", fiber.Map{
		"authenticated": current.Authenticated(),
		"busy":          h.session.Busy(),
		"user":          current.User,
	})
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the currently authenticated user's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// setAuthCookies sets access and refresh token cookies for the browser session
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	for name, value := range map[string]string{"access_token": accessToken, "refresh_token": refreshToken} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Secure:   h.cfg.IsProd(),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.IsProd(),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
