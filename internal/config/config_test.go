package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("CATALOG_API_URL", "http://catalog.local/api")
		t.Setenv("CATALOG_TIMEOUT", "3s")
		t.Setenv("CART_STORAGE", "postgres")
		t.Setenv("CART_KEY", "cart_test")
		t.Setenv("SESSION_SECRET", "s3cret")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "150")
		t.Setenv("CURRENCY", "RSD")
		t.Setenv("INTERNAL_API_KEY", "svc-key")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "http://catalog.local/api", cfg.CatalogAPIURL)
		assert.Equal(t, 3*time.Second, cfg.CatalogTimeout)
		assert.Equal(t, StoragePostgres, cfg.CartStorage)
		assert.Equal(t, "cart_test", cfg.CartKey)
		assert.Equal(t, "s3cret", cfg.SessionSecret)
		assert.Equal(t, 150.0, cfg.FreeShippingThreshold)
		assert.Equal(t, "RSD", cfg.Currency)
		assert.Equal(t, "svc-key", cfg.InternalAPIKey)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "")
		t.Setenv("APP_PORT", "")
		t.Setenv("CART_STORAGE", "")
		t.Setenv("CATALOG_TIMEOUT", "not-a-duration")
		t.Setenv("FREE_SHIPPING_THRESHOLD", "abc")
		t.Setenv("SESSION_SECRET", "")
		t.Setenv("CURRENCY", "")

		cfg := LoadConfig()

		assert.Equal(t, "development", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, StorageMemory, cfg.CartStorage)
		assert.Equal(t, "beatovic_cart_v1", cfg.CartKey)
		assert.Equal(t, 15*time.Second, cfg.CatalogTimeout)
		assert.Equal(t, 99.99, cfg.FreeShippingThreshold)
		assert.Equal(t, "KM", cfg.Currency)
		assert.NotEmpty(t, cfg.SessionSecret)
	})
}
