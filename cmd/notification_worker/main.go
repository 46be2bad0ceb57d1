package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/invoice-ledger/internal/config"
	"github.com/invoice-ledger/internal/data/mongo"
	"github.com/invoice-ledger/internal/data/postgres"
	"github.com/invoice-ledger/internal/logger"
	"github.com/invoice-ledger/internal/notification_worker/components"
	"github.com/invoice-ledger/internal/notification_worker/consumer"
	"github.com/invoice-ledger/internal/notification_worker/service"
	"github.com/invoice-ledger/internal/platform/messaging/consumers"
	"github.com/invoice-ledger/internal/platform/messaging/producers"
	"github.com/invoice-ledger/internal/platform/persistence"
	"github.com/invoice-ledger/internal/reconciler"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("notification_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Notification Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize the mirror store and ledger client for the reconciler
	invoiceRepo := postgres.NewInvoiceRepository(log, postgresDB)
	ledgerClient, err := mongo.NewLedgerClient(appCtx, log, mongoDB.Database(), cfg.MongoDB.Timeout)
	if err != nil {
		log.Error("Failed to initialize ledger client", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler should be nil-safe.

	// Initialize the dispatch pipeline: SMS sender behind a bounded worker pool
	smsSender := components.NewTwilioSMSSender(log, &cfg.SMS)
	baseDispatch := service.NewDispatchService(log, smsSender)
	dispatchService, err := service.NewWorkerPoolDispatchService(
		baseDispatch,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize dispatch worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize notification event handler
	notificationEventHandler := consumer.NewNotificationEventHandler(
		log,
		dispatchService,
		dlqProducer,
	)

	// Initialize the mirror reconciler
	mirrorReconciler := reconciler.NewReconciler(
		&cfg.Reconciler,
		ledgerClient,
		invoiceRepo,
		log,
	)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.NotificationTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.NotificationTopic, cfg.Kafka.ConsumerGroup, notificationEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Start the mirror reconciler in a goroutine when enabled
	if cfg.Reconciler.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Starting mirror reconciler",
				"interval", cfg.Reconciler.PollingInterval.String(),
				"batch_size", cfg.Reconciler.BatchSize,
			)
			mirrorReconciler.Start(appCtx)
		}()
	} else {
		log.Info("Mirror reconciler is disabled")
	}

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shutdown the dispatch worker pool
	log.Info("Shutting down worker pool", "running_workers", dispatchService.Running())
	dispatchService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Close MongoDB connection
	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Notification Worker shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Notification Worker shutdown completed with errors")
	} else {
		log.Info("Notification Worker shutdown completed successfully")
	}
}
