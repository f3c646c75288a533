package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by CART_STORAGE.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	CatalogAPIURL   string
	MediaProductURL string
	CatalogTimeout  time.Duration

	CartStorage string
	CartDir     string
	CartKey     string
	CartTTL     time.Duration
	RedisAddr   string

	KafkaBroker string
	KafkaTopic  string

	SessionSecret  string
	AllowedOrigin  string
	InternalAPIKey string

	FreeShippingThreshold float64
	Currency              string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		CatalogAPIURL:   getEnv("CATALOG_API_URL", "https://euroleague-tiebreaker.com/api"),
		MediaProductURL: getEnv("MEDIA_PRODUCT_URL", "https://euroleague-tiebreaker.com/media/product/"),
		CatalogTimeout:  getDuration("CATALOG_TIMEOUT", 15*time.Second),

		CartStorage: getEnv("CART_STORAGE", StorageMemory),
		CartDir:     getEnv("CART_DIR", ".cart"),
		CartKey:     getEnv("CART_KEY", "beatovic_cart_v1"),
		CartTTL:     getDuration("CART_TTL", 30*24*time.Hour),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "cart-events"),

		SessionSecret:  os.Getenv("SESSION_SECRET"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:4200"),
		InternalAPIKey: os.Getenv("INTERNAL_API_KEY"),

		FreeShippingThreshold: getFloat("FREE_SHIPPING_THRESHOLD", 99.99),
		Currency:              getEnv("CURRENCY", "KM"),
	}

	switch cfg.CartStorage {
	case StorageMemory, StorageFile, StorageRedis:
	case StoragePostgres:
		if cfg.DBHost == "" {
			log.Fatal("CART_STORAGE=postgres requires DB_HOST")
		}
	default:
		log.Fatalf("unknown CART_STORAGE %q", cfg.CartStorage)
	}

	if cfg.SessionSecret == "" {
		if cfg.AppEnv == "production" {
			log.Fatal("SESSION_SECRET must be set in production")
		}
		cfg.SessionSecret = "dev-session-secret"
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}
