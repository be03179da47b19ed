package main

import (
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewApp wires repositories, services and handlers into a Fiber app.
// publisher may be nil, which disables order events.
func NewApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher, log *zap.Logger) (*fiber.App, *services.AuthService, error) {
	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	uow := repositories.NewUnitOfWork()

	// --- Services ---
	authService := services.NewAuthService(userRepo, uow, log, cfg.JWTSecret, cfg.JWTTTL)
	categoryService := services.NewCategoryService(categoryRepo, uow)
	productService := services.NewProductService(productRepo, categoryRepo, uow)
	cartService := services.NewCartService(cartRepo, productRepo, uow, log)
	orderService := services.NewOrderService(orderRepo, cartRepo, uow, publisher, log)
	reviewService := services.NewReviewService(reviewRepo, productRepo, orderRepo, userRepo,
		services.NewWordListFilter(), uow, log)

	app := fiber.New(fiber.Config{
		AppName: "storefront",
	})
	app.Use(fiberlogger.New()) // Request logger

	// --- Health and metrics ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		code := fiber.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "unhealthy"
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"rabbitMQ": publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// --- API Routes ---
	// Every API request gets its own persistence session.
	apiV1 := app.Group("/api/v1", middleware.Session(db))
	auth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(apiV1, auth)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1, auth)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(apiV1, auth)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1, auth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1, auth)

	return app, authService, nil
}
