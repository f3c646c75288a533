package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"planeta-be/internal/auth"
	"planeta-be/internal/cart"
	"planeta-be/internal/catalogapi"
	"planeta-be/internal/config"
	"planeta-be/internal/db"
	"planeta-be/internal/logger"
	"planeta-be/internal/messaging/kafka/producer"
	"planeta-be/internal/metrics"
	"planeta-be/internal/middleware"
	"planeta-be/internal/response"
	"planeta-be/internal/storage"
	"planeta-be/internal/storefront"
)

const limiterSweepInterval = time.Minute

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(addr string, handler http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := newCartStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	handler, shutdown := newServer(cfg, store)
	defer shutdown()

	addr := ":" + cfg.AppPort
	logger.L().Info("storefront server running",
		zap.String("addr", addr),
		zap.String("cart_storage", cfg.CartStorage),
		zap.String("catalog_api", cfg.CatalogAPIURL),
	)
	return startServerFunc(addr, handler)
}

// newCartStorage picks the cart persistence backend from CART_STORAGE.
func newCartStorage(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.CartStorage {
	case config.StorageFile:
		s, err := storage.NewFile(cfg.CartDir)
		return s, func() {}, err
	case config.StoragePostgres:
		database := initDBFunc(cfg)
		return storage.NewPostgres(database), func() { closeDB(database) }, nil
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return storage.NewRedis(client, cfg.CartTTL), func() { _ = client.Close() }, nil
	}
	return storage.NewMemory(), func() {}, nil
}

func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		logger.L().Warn("failed to close database", zap.Error(err))
	}
}

// newServer wires the storefront and returns its handler together with a
// func that stops the background workers it started.
func newServer(cfg *config.Config, store storage.Store) (http.Handler, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	reg := metrics.NewRegistry()

	listeners := []cart.SessionListener{
		cart.SessionListenerFunc(func(context.Context, string, cart.Snapshot) {
			reg.IncCartMutations()
		}),
	}

	var publisher *producer.Publisher
	if cfg.KafkaBroker != "" {
		publisher = producer.NewPublisher(producer.NewWriter(cfg.KafkaBroker, cfg.KafkaTopic), 0, reg)
		listeners = append(listeners, publisher)
	}

	carts := cart.NewService(cart.ServiceConfig{
		Storage:               store,
		KeyPrefix:             cfg.CartKey,
		FreeShippingThreshold: cart.NewMoney(cfg.FreeShippingThreshold, cfg.Currency),
		DefaultCurrency:       cfg.Currency,
		Listeners:             listeners,
	})
	catalogClient := catalogapi.New(cfg.CatalogAPIURL, cfg.CatalogTimeout, catalogapi.WithMetrics(reg))

	router := setupRouter(
		cart.NewHandler(carts, cfg.Currency),
		storefront.NewHandler(catalogClient, carts, cfg.MediaProductURL, 0),
		reg,
	)

	limiter := middleware.NewRateLimiter(cfg.InternalAPIKey)
	go limiter.Cleanup(ctx, limiterSweepInterval)

	var h http.Handler = router
	h = limiter.Middleware(h)
	h = middleware.SessionMiddleware(auth.NewIssuer(cfg.SessionSecret), cfg.AppEnv == "production")(h)
	h = middleware.CORS(cfg.AllowedOrigin)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)

	return h, func() {
		cancel()
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.L().Warn("failed to close cart event publisher", zap.Error(err))
			}
		}
	}
}

func setupRouter(cartHandler *cart.Handler, productHandler *storefront.Handler, reg *metrics.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", func(c *gin.Context) {
		response.Success(c, http.StatusOK, reg.Snapshot())
	})

	api := r.Group("/api/v1")
	{
		storefront.RegisterRoutes(api, productHandler)
		cart.RegisterRoutes(api, cartHandler)
	}
	return r
}
