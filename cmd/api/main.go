// cmd/api/main.go
package main

import (
	"context"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/dashboard"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/httpclient"
	"github.com/your-org/storefront-backend/internal/pkg/kv"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	appLogger := logger.New(cfg)
	health := map[string]http.Pinger{}

	// Session storage
	var (
		store       kv.Store
		redisClient *goredis.Client
	)
	switch cfg.Storage.Driver {
	case "redis":
		client, err := redis.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()

		if err := client.Health(); err != nil {
			log.Fatalf("Redis health check failed: %v", err)
		}
		store, redisClient = client, client.GetClient()
		health["redis"] = client
	default:
		log.Println("⚠️  Using in-memory session storage; data is lost on restart")
		store = kv.NewMemoryStore()
	}

	// Order confirmations
	var orderRepo order.Repository
	if cfg.Database.Enabled {
		db, err := postgres.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := postgres.NewMigration(db.GetDB()).Run(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		orderRepo = order.NewGormRepository(db.GetDB())
		health["database"] = db
	} else {
		log.Println("⚠️  Database disabled; order confirmations are kept in memory")
		orderRepo = order.NewMemoryRepository()
	}

	var assets fs.FS = catalog.DefaultAssets()
	if cfg.Catalog.AssetsPath != "" {
		assets = os.DirFS(cfg.Catalog.AssetsPath)
	}
	outbound := httpclient.New(cfg.Catalog.RequestTimeout)

	jwtManager := auth.NewJWTManager(cfg)

	var provider session.Provider
	switch cfg.Auth.Provider {
	case "local":
		provider = session.NewLocalProvider(store, jwtManager, auth.NewPasswordManager(cfg))
	default:
		provider = session.NewRemoteProvider(outbound, cfg.Auth.BaseURL)
	}

	carts := cart.NewService(store, logger.Component(appLogger, "cart"))
	orders := order.NewService(orderRepo, cfg.Receipt.Currency, logger.Component(appLogger, "order"))

	deps := http.Dependencies{
		Sessions:  session.NewService(store, provider, cfg.Auth.DashboardAdminEmails, logger.Component(appLogger, "session")),
		Catalog:   catalog.NewService(cfg.Catalog.ProductAPIBaseURL, outbound, assets, store, logger.Component(appLogger, "catalog")),
		Carts:     carts,
		Checkout:  checkout.NewService(store, carts, orders, logger.Component(appLogger, "checkout")),
		Orders:    orders,
		Dashboard: dashboard.NewService(assets, store, logger.Component(appLogger, "dashboard")),
		PDF:       pdf.NewService(cfg),
		JWT:       jwtManager,
		Redis:     redisClient,
		Health:    health,
	}

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, appLogger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
}
