package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/admin"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/catalog"
	"storefront-service/internal/notify"
	"storefront-service/internal/order"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/session"
	"storefront-service/internal/storage"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	if cfg.Observ.TracingEnabled {
		tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
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

	var (
		backend storage.Backend  = storage.NewMemory()
		orders  order.Repository = order.NewMemory()
		redis   *redisclient.Client
	)

	if cfg.Storage.Backend == "redis" || cfg.Kafka.Enabled {
		var err error
		redis, err = redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StateTTL)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redis.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	switch cfg.Storage.Backend {
	case "memory":
	case "redis":
		backend = redis
	case "postgres":
		db, err := store.NewStore(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Migrate(context.Background()); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		backend, orders = db, db
		logger.Info("Database connected")
	default:
		logger.Fatal("Unknown storage backend", zap.String("backend", cfg.Storage.Backend))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	notifier := notify.Log(logger)
	var publisher *broker.EventPublisher
	var activityWorker *worker.ActivityWorker

	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		publisher = broker.NewEventPublisher(producer)
		notifier = notify.Multi(notifier, publisher)

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
		activityWorker = worker.NewActivityWorker(consumer, redis)
		go func() {
			if err := activityWorker.Start(workerCtx); err != nil && err != context.Canceled {
				logger.Error("Activity worker error", zap.Error(err))
			}
		}()
	}

	catalogStore := catalog.Default()
	catalogAPI := catalog.NewAPI(catalogStore,
		catalog.LatencyFromMillis(cfg.Catalog.LatencyMillis),
		cfg.Catalog.PageSize,
		cfg.Catalog.SearchLimit)

	sessions := session.NewRegistry(backend, notifier)
	go sessions.Sweep(workerCtx, time.Minute, cfg.Server.SessionIdle)

	var orderPublisher order.Publisher
	if publisher != nil {
		orderPublisher = publisher
	}
	orderService := order.NewService(orders, orderPublisher)

	var activity admin.ActivitySource
	if cfg.Kafka.Enabled {
		activity = redis
	}
	adminService := admin.NewService(catalogStore, orderService, activity, sessions.Len)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if cfg.Server.Env != "production" {
		router.Use(gin.Logger())
	}
	handler := api.NewHandler(catalogAPI, sessions, orderService, adminService)
	handler.SetupRoutes(router, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if activityWorker != nil {
		activityWorker.Stop()
	}

	logger.Info("Server exited")
}
