package main

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planeta-be/internal/auth"
	"planeta-be/internal/cart"
	"planeta-be/internal/catalogapi"
	"planeta-be/internal/config"
	"planeta-be/internal/logger"
	"planeta-be/internal/metrics"
	"planeta-be/internal/storage"
	"planeta-be/internal/storefront"
)

func testConfig() *config.Config {
	return &config.Config{
		AppPort:               "8080",
		AppEnv:                "test",
		CatalogAPIURL:         "http://127.0.0.1:0/api",
		CartStorage:           config.StorageMemory,
		CartKey:               "beatovic_cart_v1",
		SessionSecret:         "test-secret",
		AllowedOrigin:         "http://localhost:4200",
		FreeShippingThreshold: 99.99,
		Currency:              "KM",
	}
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := metrics.NewRegistry()
	reg.IncCartMutations()
	carts := cart.NewService(cart.ServiceConfig{Storage: storage.NewMemory()})
	router := setupRouter(
		cart.NewHandler(carts, "KM"),
		storefront.NewHandler(catalogapi.New("http://127.0.0.1:0", 0), carts, "", 0),
		reg,
	)

	t.Run("Health Check", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
	})

	t.Run("Metrics", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/metrics", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"cartMutations":1`)
	})

	t.Run("Cart needs a session", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/v1/cart", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestNewServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, shutdown := newServer(testConfig(), storage.NewMemory())
	defer shutdown()

	t.Run("Health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(logger.RequestIDHeader))
		assert.Equal(t, "http://localhost:4200", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Cart session round trip", func(t *testing.T) {
		add := httptest.NewRequest("POST", "/api/v1/cart/items",
			strings.NewReader(`{"id":"p1::42","name":"Pegasus","unitPrice":{"amount":50},"qty":2}`))
		add.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, add)
		require.Equal(t, http.StatusCreated, rr.Code)

		token := rr.Header().Get(auth.SessionHeader)
		require.NotEmpty(t, token)

		get := httptest.NewRequest("GET", "/api/v1/cart", nil)
		get.Header.Set("Authorization", "Bearer "+token)
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, get)
		require.Equal(t, http.StatusOK, rr.Code)

		var env struct {
			Data cart.Snapshot `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
		assert.Equal(t, 2, env.Data.ItemsCount)
		assert.Equal(t, "100", env.Data.Subtotal.Amount.String())
		assert.Equal(t, 1.0, env.Data.FreeShippingProgress)

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
		assert.Contains(t, rr.Body.String(), `"cartMutations":1`)
	})
}

func TestNewCartStorage(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		s, closeFn, err := newCartStorage(testConfig())
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &storage.Memory{}, s)
	})

	t.Run("File", func(t *testing.T) {
		cfg := testConfig()
		cfg.CartStorage = config.StorageFile
		cfg.CartDir = t.TempDir()

		s, closeFn, err := newCartStorage(cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &storage.File{}, s)
	})

	t.Run("Postgres", func(t *testing.T) {
		origInitDB := initDBFunc
		defer func() { initDBFunc = origInitDB }()
		initDBFunc = func(cfg *config.Config) *sql.DB {
			db, _ := sql.Open("mock_driver_main", "")
			return db
		}

		cfg := testConfig()
		cfg.CartStorage = config.StoragePostgres
		s, closeFn, err := newCartStorage(cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &storage.Postgres{}, s)
	})

	t.Run("Redis", func(t *testing.T) {
		cfg := testConfig()
		cfg.CartStorage = config.StorageRedis
		cfg.RedisAddr = "127.0.0.1:0"

		s, closeFn, err := newCartStorage(cfg)
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &storage.Redis{}, s)
	})
}

// --- Mock Driver for Testing ---
type mockDriver struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)         { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error)       { return &mockStmt{}, nil }
func (c *mockConn) Close() error                                    { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                       { return nil, nil }
func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

type mockConn struct{}
type mockStmt struct{}

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func TestRun(t *testing.T) {
	origInitDB := initDBFunc
	defer func() { initDBFunc = origInitDB }()
	initCalled := false
	initDBFunc = func(cfg *config.Config) *sql.DB {
		initCalled = true
		db, _ := sql.Open("mock_driver_main", "")
		return db
	}

	origStartServer := startServerFunc
	defer func() { startServerFunc = origStartServer }()
	var gotAddr string
	startServerFunc = func(addr string, handler http.Handler) error {
		gotAddr = addr
		return nil
	}

	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("CART_STORAGE", "postgres")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "db")
	t.Setenv("KAFKA_BROKER", "")

	assert.NoError(t, run())
	assert.True(t, initCalled)
	assert.Equal(t, ":8080", gotAddr)
}
