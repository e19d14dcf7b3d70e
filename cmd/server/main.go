package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/api"
	"storefront/internal/broker"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"
	"storefront/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer(cfg.Observ.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	// one postgres connection serves both the catalog and cart snapshots
	var db *store.Store
	if cfg.Catalog.Source == config.CatalogPostgres || cfg.Cart.Backend == config.BackendPostgres {
		var err error
		db, err = store.NewStore(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database connected")
	}

	products, err := loadProducts(ctx, cfg, db)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	cat, err := catalog.New(products)
	if err != nil {
		logger.Fatal("Invalid catalog", zap.Error(err))
	}
	logger.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("products", cat.Len()),
		zap.Strings("categories", cat.Categories()))

	var (
		cartStore cart.Store
		ready     func() error
	)
	switch cfg.Cart.Backend {
	case config.BackendMemory:
		cartStore = cart.NewMemoryStore()
	case config.BackendPostgres:
		cartStore = db
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.GetDB().PingContext(pingCtx)
		}
	case config.BackendRedis:
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Cart.TTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cartStore = redisClient
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx)
		}
		logger.Info("Redis connected")
	default:
		logger.Fatal("Unknown cart backend", zap.String("backend", cfg.Cart.Backend))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var (
		events         service.EventPublisher
		activityWorker *worker.CartActivityWorker
	)
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCart)
		defer producer.Close()
		events = broker.NewEventPublisher(producer)
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCart, cfg.Kafka.ConsumerGroup)
		activityWorker = worker.NewCartActivityWorker(consumer)
		go func() {
			if err := activityWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Cart activity worker error", zap.Error(err))
			}
		}()
	}

	catalogService := service.NewCatalogService(cat, cfg.Catalog.RelatedLimit)
	cartService := service.NewCartService(cat, cartStore, events, cfg.Cart.StorageKey)

	if cfg.Cart.SessionIdle > 0 {
		janitor := worker.NewSessionJanitor(cartService, cfg.Cart.SessionIdle)
		go func() {
			_ = janitor.Start(workerCtx)
		}()
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, cartService, ready)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if activityWorker != nil {
		if err := activityWorker.Stop(); err != nil {
			logger.Warn("Failed to close consumer", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// loadProducts reads the catalog from the configured source. An empty
// postgres catalog is seeded with the built-in products first.
func loadProducts(ctx context.Context, cfg *config.Config, db *store.Store) ([]models.Product, error) {
	switch cfg.Catalog.Source {
	case config.CatalogBuiltin:
		return catalog.Seed(), nil
	case config.CatalogFile:
		return catalog.LoadFile(cfg.Catalog.File)
	case config.CatalogPostgres:
		products, err := db.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		if len(products) > 0 {
			return products, nil
		}
		if err := db.SeedProducts(ctx, catalog.Seed()); err != nil {
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		return db.ListProducts(ctx)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}
