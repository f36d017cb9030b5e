package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	apihttp "rentops-backend/internal/api/http"
	"rentops-backend/internal/config"
	"rentops-backend/internal/events"
	"rentops-backend/internal/idempotency"
	"rentops-backend/internal/logger"
	"rentops-backend/internal/repository/postgres"
	"rentops-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentOps reservation server...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Idempotency store: redis when configured, in-process otherwise
	var idemStore idempotency.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to ping redis: %v", err)
		}
		idemStore = idempotency.NewRedisStore(client)
		logger.Info("Using redis idempotency store", "addr", cfg.Redis.Addr)
	} else {
		idemStore = idempotency.NewMemoryStore()
		logger.Info("Using in-memory idempotency store")
	}

	// Event publisher is optional
	var publisher events.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.AMQP.URL)
		if err != nil {
			log.Fatalf("Failed to connect to message broker: %v", err)
		}
		defer publisher.Close()
		logger.Info("Event publisher connected")
	}

	var notifier service.Notifier
	if cfg.Email.APIKey != "" {
		notifier = service.NewEmailNotifier(
			cfg.Email.APIKey,
			cfg.Email.From,
			cfg.Email.FromName,
			cfg.Email.DeskAddress,
		)
	} else {
		logger.Warn("Email notifier disabled, lifecycle notifications will be logged only")
		notifier = service.NewLogNotifier()
	}

	booking := service.NewBookingService(
		store.TxManager,
		store.ReservationRepository,
		store.ProductRepository,
		store.ChargeRepository,
		idemStore,
		notifier,
		publisher,
		service.NewZeroTaxProvider(),
		service.BookingConfig{
			DamageFeeCents: cfg.Billing.DamageFeeCents,
			IdempotencyTTL: time.Duration(cfg.Billing.IdempotencyTTLMinutes) * time.Minute,
		},
	)

	router := mux.NewRouter()
	apihttp.NewReservationHandler(booking).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
