package routes

import (
	"time"

	"course-portal/internal/adapters/http/handlers"
	"course-portal/internal/adapters/http/middleware"
	"course-portal/internal/config"
	"course-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// catalogCacheAge is how long browsers may reuse a catalog page
const catalogCacheAge = 30 * time.Second

// Dependencies are the services the API exposes
type Dependencies struct {
	Session     *services.SessionService
	Catalog     *services.CatalogService
	Enrollments *services.EnrollmentService
	Analytics   *services.AnalyticsService
	Query       *services.Query
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, deps Dependencies) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(deps.Session, cfg)
	courseHandler := handlers.NewCourseHandler(deps.Catalog, deps.Enrollments)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Enrollments, deps.Query)
	enrollmentHandler := handlers.NewEnrollmentHandler(deps.Enrollments)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	requireAuth := middleware.AuthMiddleware(deps.Session)

	// Auth routes
	authRoutes := apiV1.Group("/auth", middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, requireAuth)

	// Student routes
	catalogRoutes := apiV1.Group("/catalog", requireAuth, middleware.StudentOnly(deps.Session))
	setupCatalogRoutes(catalogRoutes, catalogHandler)

	enrollmentRoutes := apiV1.Group("/enrollments", requireAuth, middleware.StudentOnly(deps.Session))
	setupEnrollmentRoutes(enrollmentRoutes, enrollmentHandler)

	// Faculty routes
	facultyRoutes := apiV1.Group("/faculty", requireAuth, middleware.FacultyOnly(deps.Session))
	setupFacultyRoutes(facultyRoutes, courseHandler, analyticsHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, requireAuth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)
	router.Get("/status", handler.Status)

	// Protected routes
	router.Get("/me", requireAuth, handler.Me)
}

// setupCatalogRoutes configures the student catalog routes
func setupCatalogRoutes(router fiber.Router, handler *handlers.CatalogHandler) {
	router.Get("/", middleware.PrivateCacheHeaders(catalogCacheAge), handler.Browse)
	router.Get("/:id", handler.Get)
}

// setupEnrollmentRoutes configures the student enrollment routes
func setupEnrollmentRoutes(router fiber.Router, handler *handlers.EnrollmentHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Status)
	router.Post("/:id", handler.Enroll)
	router.Delete("/:id", handler.Unenroll)
}

// setupFacultyRoutes configures the faculty course and analytics routes
func setupFacultyRoutes(router fiber.Router, courses *handlers.CourseHandler, analytics *handlers.AnalyticsHandler) {
	router.Get("/categories", courses.Categories)

	router.Get("/courses", courses.List)
	router.Post("/courses", courses.Create)
	router.Get("/courses/:id", courses.Get)
	router.Put("/courses/:id", courses.Update)
	router.Delete("/courses/:id", courses.SoftDelete)
	router.Post("/courses/:id/restore", courses.Restore)
	router.Delete("/courses/:id/permanent", courses.PermanentlyDelete)
	router.Get("/courses/:id/enrollments", courses.Roster)

	router.Get("/analytics", analytics.Report)
	router.Get("/analytics/export", analytics.Export)
}
