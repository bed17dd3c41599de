package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storerate/internal/app"
	"storerate/internal/config"
	"storerate/internal/database"
	"storerate/internal/services"
	"storerate/pkg/rabbitmq"

	log "github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogging()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: services.EventsExchange,
			Queue:    "rating_events",
			Bindings: []string{"rating.*", "store.*"},
		})
		if err != nil {
			log.Warnf("Failed to initialize RabbitMQ client, domain events are disabled: %v", err)
		} else {
			defer mqClient.Close() // Ensure the connection is closed on exit
			events = mqClient

			if err := mqClient.ConsumeEvents(rabbitmq.LogEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	} else {
		log.Info("RABBITMQ_URL not set, domain events are disabled")
	}

	application := app.New(db, app.Options{Config: cfg, Events: events, AccessLog: true})

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := application.Auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := application.Fiber.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}
