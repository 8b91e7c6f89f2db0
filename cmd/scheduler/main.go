package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pebble_scheduler/internal/app"
	"pebble_scheduler/internal/infra/config"
	idb "pebble_scheduler/internal/infra/database"
	"pebble_scheduler/internal/infra/httpserver"
	"pebble_scheduler/internal/infra/logger"
	"pebble_scheduler/internal/infra/mail"
	"pebble_scheduler/internal/infra/scheduler"
)

func main() {
	fmt.Println("Pebble scheduler starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	appLogger := logger.Get()
	appLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, MailProvider: %s",
		cfg.LogLevel, cfg.Environment, cfg.MailProvider)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	appLogger.Info("Database connection established successfully")

	// Initialize Repositories
	itemRepo := idb.NewPostgresItemRepository(db)
	userRepo := idb.NewPostgresUserRepository(db)
	appLogger.Info("Repositories initialized")

	// Initialize the configured mail backend
	mailer, err := mail.NewMailer(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("FATAL: Could not initialize mail backend: %v", err)
	}

	// Initialize Services
	deliveryService := app.NewDeliveryServiceImpl(
		itemRepo,
		userRepo,
		mailer,
		appLogger,
		cfg.FromAddress,
		cfg.PostponeBaseURL,
		cfg.ReminderLeadDays,
	)
	postponeService := app.NewPostponeService(itemRepo, appLogger)
	appLogger.Info("Delivery and postpone services initialized")

	// Initialize DeliveryScheduler
	deliveryScheduler := scheduler.NewDeliveryScheduler(deliveryService, appLogger, cfg.CronSpecDaily)
	deliveryScheduler.Start()

	// Initialize HTTP server (on-demand trigger + postpone link)
	server := httpserver.New(cfg.HTTPAddr, deliveryService, postponeService, appLogger)
	go func() {
		if err := server.Start(); err != nil {
			appLogger.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	appLogger.Info("Application setup complete. Scheduler and HTTP server are running...")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down application...")
	deliveryScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("HTTP server shutdown error: %v", err)
	}
	appLogger.Info("Application shut down gracefully")
}
