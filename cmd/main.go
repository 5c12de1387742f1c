package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/adapter/memory"
	"github.com/YelzhanWeb/dinein/internal/adapter/postgres"
	"github.com/YelzhanWeb/dinein/internal/adapter/qrcode"
	"github.com/YelzhanWeb/dinein/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/dinein/internal/app/dining"
	"github.com/YelzhanWeb/dinein/internal/app/order"
	"github.com/YelzhanWeb/dinein/internal/app/payment"
	"github.com/YelzhanWeb/dinein/internal/app/reservation"
	"github.com/YelzhanWeb/dinein/internal/config"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/dinein/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/dinein/internal/adapter/http"
	kafkaAdapter "github.com/YelzhanWeb/dinein/internal/adapter/kafka"
	redisAdapter "github.com/YelzhanWeb/dinein/internal/adapter/redis"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: api-service, notification-subscriber, migrate")
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	storeKind := flag.String("store", "postgres", "Storage backend for api-service: postgres or memory")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Initialize logger
	lgr := logger.New(*mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Route to appropriate service
	switch *mode {
	case "api-service":
		err = runAPIService(ctx, cfg, *storeKind, lgr)

	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, *prefetch, lgr)

	case "migrate":
		err = runMigrations(ctx, cfg, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}

	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		os.Exit(1)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, lgr logger.Logger) (postgres.DB, error) {
	db, err := postgres.Connect(ctx, cfg.Database, lgr)
	if err != nil {
		return nil, err
	}

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})
	return db, nil
}

func connectRabbitMQ(cfg *config.Config, lgr logger.Logger) (rabbitmq.Connection, error) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})
	return mqConn, nil
}

func runMigrations(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := connectPostgres(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, lgr); err != nil {
		return err
	}

	lgr.Info("migrations_completed", "Database schema is up to date", "startup", nil)
	return nil
}

// runAPIService serves the HTTP API. The memory backend runs without any
// infrastructure: confirmations are rendered in-process and payment markers
// stay in memory.
func runAPIService(ctx context.Context, cfg *config.Config, storeKind string, lgr logger.Logger) error {
	var (
		store    interfaces.Store
		notifier interfaces.Notifier
		markers  interfaces.PaymentMarkerStore
	)

	switch storeKind {
	case "memory":
		store = memory.NewDemoStore()
		notifier = amqpAdapter.NewLocalNotifier(amqpAdapter.NewNotificationHandler(lgr))
		markers = memory.NewMarkerStore()

	case "postgres":
		db, err := connectPostgres(ctx, cfg, lgr)
		if err != nil {
			return err
		}
		defer db.Close()
		store = postgres.NewStore(db)

		mqConn, err := connectRabbitMQ(cfg, lgr)
		if err != nil {
			return err
		}
		defer mqConn.Close()
		notifier = rabbitmq.NewNotifier(mqConn)

		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Markers only dedupe replays; the service still works without them.
			lgr.Error("redis_unavailable", "Redis is not reachable, payment replays will be reprocessed", "startup", nil, err)
		}
		markers = redisAdapter.NewMarkerStore(rdb, redisAdapter.DefaultMarkerTTL)

	default:
		return fmt.Errorf("unknown store %q", storeKind)
	}

	events := kafkaAdapter.NewOrderEventPublisher(kafkaAdapter.NewWriter(cfg.Kafka.Broker, cfg.Kafka.OrderTopic, lgr))
	defer events.Close()

	// Initialize services
	orders := order.NewService(store, events, lgr)
	handler := httpAdapter.NewRouter(httpAdapter.Services{
		Reservations: reservation.NewService(store, notifier, qrcode.NewGenerator(qrcode.DefaultSize), lgr),
		Tables:       dining.NewService(store, lgr),
		Orders:       orders,
		Payments:     payment.NewService(store, events, markers, lgr),
	}, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("API Service started on port %d", cfg.Server.Port), "startup", map[string]interface{}{
		"port":  cfg.Server.Port,
		"store": storeKind,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		lgr.Info("shutdown_initiated", "Shutting down API Service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, prefetch int, lgr logger.Logger) error {
	mqConn, err := connectRabbitMQ(cfg, lgr)
	if err != nil {
		return err
	}
	defer mqConn.Close()

	consumer := rabbitmq.NewConsumer(mqConn, prefetch, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	err = consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification)
	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}
