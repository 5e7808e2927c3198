package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/muhammedsharbag/E-Shop-App/internal/api"
	"github.com/muhammedsharbag/E-Shop-App/internal/auth"
	"github.com/muhammedsharbag/E-Shop-App/internal/cache"
	"github.com/muhammedsharbag/E-Shop-App/internal/config"
	"github.com/muhammedsharbag/E-Shop-App/internal/events"
	"github.com/muhammedsharbag/E-Shop-App/internal/metrics"
	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
	"github.com/muhammedsharbag/E-Shop-App/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "eshop-api").Logger()
	logger.Info().Msg("eshop api starting...")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Database setup
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase, repository.ConnectOptions{
		MaxPoolSize: cfg.MongoMaxPoolSize,
		MinPoolSize: cfg.MongoMinPoolSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := db.Client().Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongodb")

	cartRepo := repository.NewMongoCartRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	couponRepo := repository.NewMongoCouponRepository(db)
	productRepo := repository.NewMongoProductRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	// Cache setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	cartCache := cache.NewRedisCache(redisClient, cfg.CartCacheTTL)
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to redis")

	// Event publishing
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	m := metrics.New(prometheus.NewRegistry())

	inventory := service.NewInventoryAdjuster(productRepo, cfg.StockPolicy, logger)
	cartService := service.NewCartService(cartRepo, productRepo, couponRepo, cartCache, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, userRepo, inventory, gateway, publisher, cartCache, m, logger, service.OrderConfig{
		TaxPrice:      cfg.TaxPrice,
		ShippingPrice: cfg.ShipPrice,
		Currency:      cfg.Currency,
		SuccessURL:    cfg.SuccessURL,
		CancelURL:     cfg.CancelURL,
	})
	authService := service.NewAuthService(userRepo, tokens, logger)
	couponService := service.NewCouponService(couponRepo)

	router := api.NewRouter(api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Cart:     api.NewCartHandler(cartService),
		Order:    api.NewOrderHandler(orderService),
		Coupon:   api.NewCouponHandler(couponService),
		Webhook:  api.NewWebhookHandler(orderService, logger),
		AuthGate: api.NewAuthenticator(tokens, userRepo),
		Metrics:  m,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "eshop-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server stopped")
}
