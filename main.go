package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/pagination"
	"storefront/pkg/rabbitmq"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			zlog.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			zlog.Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
		} else {
			defer mqClient.Close() // Ensure the connection is closed on exit
			publisher = mqClient
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogEvents(zlog)); err != nil {
				zlog.Warn("failed to start order event consumer", zap.Error(err))
			}
		}
	}

	app, authService, err := NewApp(cfg, db, publisher, zlog)
	if err != nil {
		zlog.Fatal("failed to create app", zap.Error(err))
	}

	if cfg.AdminPassword != "" {
		ctx := database.WithSession(context.Background(), database.NewSession(db))
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			zlog.Fatal("failed to create admin user", zap.Error(err))
		}
	}
	if cfg.SeedCatalog {
		if err := seedCatalog(context.Background(), db); err != nil {
			zlog.Warn("failed to seed catalog", zap.Error(err))
		}
	}

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Error("error during fiber shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}

// seedCatalog adds a demo category with a few products to an empty catalog.
func seedCatalog(ctx context.Context, db *gorm.DB) error {
	ctx = database.WithSession(ctx, database.NewSession(db))
	categories := repositories.NewGORMCategoryRepository(db)
	products := repositories.NewGORMProductRepository(db)
	uow := repositories.NewUnitOfWork()

	page, err := categories.GetPage(ctx, pagination.Params{PageSize: 1})
	if err != nil {
		return err
	}
	if page.TotalCount > 0 {
		return nil
	}

	category := &models.Category{Name: "Peripherals", Description: "Computer peripherals"}
	if err := categories.Add(ctx, category); err != nil {
		return err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return err
	}

	seed := []models.Product{
		{Name: "Laptop", Description: "High performance laptop", Price: decimal.NewFromInt(1200)},
		{Name: "Keyboard", Description: "Mechanical keyboard", Price: decimal.NewFromInt(75)},
		{Name: "Mouse", Description: "Ergonomic wireless mouse", Price: decimal.NewFromInt(25)},
	}
	for i := range seed {
		seed[i].CategoryID = category.ID
		if err := products.Add(ctx, &seed[i]); err != nil {
			return err
		}
	}
	_, err = uow.Commit(ctx)
	return err
}
