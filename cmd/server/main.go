package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/pagocadm-web/redimi-loyalty/internal/config"
	"github.com/pagocadm-web/redimi-loyalty/internal/handler"
	"github.com/pagocadm-web/redimi-loyalty/internal/middleware"
	"github.com/pagocadm-web/redimi-loyalty/internal/repository"
	"github.com/pagocadm-web/redimi-loyalty/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	store, err := newStore(cfg)
	if err != nil {
		zlog.Fatal("failed to create store", zap.Error(err))
	}
	defer store.Close()

	// Services
	vendorSvc := service.NewVendorService(store)
	customerSvc := service.NewCustomerService(store)
	settingsSvc := service.NewSettingsService(store)
	ledgerSvc := service.NewLedgerService(store, settingsSvc, zlog)

	h := handler.New(cfg, vendorSvc, customerSvc, ledgerSvc, settingsSvc, store, zlog)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Health check
	app.Get("/health", h.Health)

	// Authentication
	app.Post("/api/auth/login", h.Login)

	// API routes behind vendor authentication
	api := app.Group("/api", middleware.VendorAuth(cfg))

	api.Get("/auth/me", h.Me)

	// Customers
	api.Get("/customers", h.GetCustomers)
	api.Post("/customers", h.CreateCustomer)

	// Transactions
	api.Get("/transactions", h.GetTransactions)
	api.Post("/transactions/earn", h.Earn)
	api.Post("/transactions/redeem", h.Redeem)

	// Stats
	api.Get("/stats", h.GetStats)

	// Settings
	api.Get("/settings", h.GetSettings)
	api.Put("/settings", h.UpdateSettings)
	api.Post("/settings/branches", h.AddBranch)

	// Event logs
	api.Get("/events", h.GetEvents)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		_ = app.Shutdown()
	}()

	zlog.Info("server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Server.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newStore(cfg *config.Config) (repository.Store, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return repository.NewMemory(), nil
	}
	return repository.NewPostgres(cfg.Database.DSN())
}
