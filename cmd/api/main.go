package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/core/cache"
	"storefront/internal/core/config"
	"storefront/internal/core/httpclient"
	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	"storefront/internal/core/storeapi"
	cartadapter "storefront/internal/features/cart/adapters"
	carthandler "storefront/internal/features/cart/handler"
	cartservice "storefront/internal/features/cart/service"
	catalogadapter "storefront/internal/features/catalog/adapters"
	cataloghandler "storefront/internal/features/catalog/handler"
	catalogservice "storefront/internal/features/catalog/service"
	checkoutadapter "storefront/internal/features/checkout/adapters"
	checkouthandler "storefront/internal/features/checkout/handler"
	checkoutservice "storefront/internal/features/checkout/service"

	"go.uber.org/zap"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title Storefront API
// @version 1.0
// @description Catalog, cart and checkout for the online store.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Redis holds carts and checkout drafts
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer redisCache.Close()

	if err := redisCache.Ping(startCtx); err != nil {
		l.Fatal("Redis is unreachable", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Store API client and health check
	apiClient, err := storeapi.NewClient(cfg.StoreAPI, httpclient.Options{
		RequestsPerSecond: cfg.StoreAPI.RequestsPerSecond,
		Burst:             cfg.StoreAPI.Burst,
		Proxy:             cfg.Proxy.Settings(),
	})
	if err != nil {
		l.Fatal("Invalid store API configuration", zap.Error(err))
	}
	if err := apiClient.HealthCheck(startCtx); err != nil {
		l.Fatal("Store API Health Check Failed", zap.Error(err))
	}
	l.Info("Store API connection verified")

	// Catalog
	productService := catalogservice.NewProductService(catalogadapter.NewStoreAPICatalog(apiClient))
	catalogHdl := cataloghandler.NewCatalogHandler(productService)

	// Cart
	cartRepo := cartadapter.NewRedisCartRepository(redisCache, cfg.Redis.CartTTL())
	cartSvc := cartservice.NewCartService(cartRepo, productService)
	cartHdl := carthandler.NewCartHandler(cartSvc)

	// Checkout
	checkoutRepo := checkoutadapter.NewRedisCheckoutRepository(redisCache, cfg.Redis.CheckoutTTL())
	submitter := checkoutadapter.NewStoreAPISubmitter(apiClient)
	checkoutSvc := checkoutservice.NewCheckoutService(checkoutRepo, cartSvc, submitter)
	checkoutHdl := checkouthandler.NewCheckoutHandler(checkoutSvc)

	srv := server.New(cfg, redisCache)

	// Register Routes
	catalogHdl.RegisterRoutes(srv.App)
	cartHdl.RegisterRoutes(srv.App)
	checkoutHdl.RegisterRoutes(srv.App)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down")
	if err := srv.Shutdown(shutdownTimeout); err != nil {
		l.Error("Graceful shutdown failed", zap.Error(err))
	}
}
