// Package app assembles the Fiber application from its repositories,
// services and handlers.
package app

import (
	"time"

	"storerate/internal/config"
	"storerate/internal/handlers"
	"storerate/internal/middleware"
	"storerate/internal/repositories"
	"storerate/internal/services"
	"storerate/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// App is the assembled HTTP application and the services behind it.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService
}

// Options are the dependencies New needs besides the database.
type Options struct {
	Config    *config.Config
	Events    services.EventPublisher // nil disables event publishing
	AccessLog bool
}

// New wires repositories, services, handlers and routes on top of db.
func New(db *gorm.DB, opts Options) *App {
	cfg := opts.Config

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret,
		services.WithTokenTTL(cfg.TokenTTL),
		services.WithLegacyPlaintext(cfg.AllowLegacyPlaintext),
	)
	userService := services.NewUserService(userRepo)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo, opts.Events)
	ratingService := services.NewRatingService(ratingRepo, storeRepo, opts.Events)
	dashboardService := services.NewDashboardService(userRepo, storeRepo, ratingRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, ratingService)
	storeHandler := handlers.NewStoreHandler(storeService, ratingService)
	adminHandler := handlers.NewAdminHandler(authService, userService, storeService, ratingService, dashboardService)

	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New()) // Request logger
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.TokenHeader,
	}))
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": opts.Events != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// --- API Routes ---
	auth := middleware.AuthRequired(authService)
	api := app.Group("/api")
	authHandler.RegisterRoutes(api, auth)
	storeHandler.RegisterRoutes(api, auth)
	adminHandler.RegisterRoutes(api, auth)

	return &App{Fiber: app, Auth: authService}
}
