package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"course-portal/internal/adapters/http/middleware"
	"course-portal/internal/adapters/http/routes"
	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/services"
	"course-portal/internal/pkg/idgen"
	"course-portal/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"

	_ "course-portal/docs" // Swagger docs
)

// @title Course Portal API
// @version 1.0
// @description Course catalog and enrollment portal API

// @host localhost:3000
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open store
	repo, err := config.OpenRepository(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer config.CloseDatabase()

	st := store.New(repo)

	// Seed mock accounts and the shared catalog
	if err := config.NewSeeder(st, cfg.Session.BcryptCost).Run(ctx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed store: %v", err)
	}

	// Initialize services
	validator := validate.New(validate.CodeRule(cfg.Catalog.CodeRule))
	ids := idgen.New(nil)

	session := services.NewSessionService(st, validator, ids, cfg)
	if err := session.Init(ctx); err != nil {
		log.Fatalf("❌ Failed to restore session: %v", err)
	}
	defer session.Dispose()

	catalog := services.NewCatalogService(st, validator, ids)
	enrollments := services.NewEnrollmentService(st, catalog)
	analytics := services.NewAnalyticsService(catalog, enrollments)

	// Start token refresher
	refresher := services.NewRefreshService(session, cfg.Session.RefreshSpec)
	if err := refresher.Start(); err != nil {
		log.Fatalf("❌ Failed to start token refresher: %v", err)
	}
	defer refresher.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Course Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, cfg, routes.Dependencies{
		Session:     session,
		Catalog:     catalog,
		Enrollments: enrollments,
		Analytics:   analytics,
		Query:       services.NewQuery(cfg.Catalog.PageSize),
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
