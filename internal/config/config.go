// Package config loads runtime settings from the environment. Secrets
// have no defaults, and malformed values fail startup instead of
// silently falling back.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/muhammedsharbag/E-Shop-App/internal/service"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	RedisAddr     string
	RedisPassword string
	CartCacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
	JWTExpiry time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string

	Currency   string
	TaxPrice   float64
	ShipPrice  float64
	SuccessURL string
	CancelURL  string

	StockPolicy service.StockPolicy
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "eshop"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "orders.created"),

		JWTExpiry: 24 * time.Hour,

		Currency:   getEnv("CURRENCY", "egp"),
		SuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/orders"),
		CancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/cart"),
	}

	var err error
	if cfg.TaxPrice, err = getEnvFloat("TAX_PRICE", 0); err != nil {
		return nil, err
	}
	if cfg.ShipPrice, err = getEnvFloat("SHIPPING_PRICE", 0); err != nil {
		return nil, err
	}
	if cfg.MongoMaxPoolSize, err = getEnvUint("MONGO_MAX_POOL_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.MongoMinPoolSize, err = getEnvUint("MONGO_MIN_POOL_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.CartCacheTTL, err = getEnvDuration("CART_CACHE_TTL", 0); err != nil {
		return nil, err
	}

	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.StripeSecretKey, err = requireEnv("STRIPE_SECRET_KEY"); err != nil {
		return nil, err
	}
	if cfg.StripeWebhookSecret, err = requireEnv("STRIPE_WEBHOOK_SECRET"); err != nil {
		return nil, err
	}

	if getEnv("STOCK_POLICY", "best_effort") == "strict" {
		cfg.StockPolicy = service.StockPolicyStrict
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s: invalid number %q", key, value)
	}
	return f, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	u, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s: invalid unsigned integer %q", key, value)
	}
	return u, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s: invalid duration %q", key, value)
	}
	return d, nil
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", key)
	}
	return value, nil
}
