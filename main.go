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

	"github.com/stonescan/stonescan-be/internal/api"
	"github.com/stonescan/stonescan-be/internal/auth"
	"github.com/stonescan/stonescan-be/internal/config"
	"github.com/stonescan/stonescan-be/internal/inference"
	"github.com/stonescan/stonescan-be/internal/logger"
	"github.com/stonescan/stonescan-be/internal/mailer"
	"github.com/stonescan/stonescan-be/internal/monitoring"
	"github.com/stonescan/stonescan-be/internal/services"
	"github.com/stonescan/stonescan-be/internal/storage"
	"github.com/stonescan/stonescan-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init()

	// Ensure the data and upload directories exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// Set up the keyed store
	var store storage.Store
	switch cfg.StoreBackend {
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
	case "json":
		store = storage.NewFileStore(cfg.DataDir)
	default:
		log.Fatalf("Unknown store backend %q", cfg.StoreBackend)
	}
	defer store.Close()

	// Set up the token service
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// Pick the OTP delivery channel
	var mail mailer.Sender
	if cfg.MailEnabled() {
		mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		mail = mailer.LogSender{}
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	eventService := services.NewEventService(store, hub)
	authService := services.NewAuthService(store, tokens, mail, eventService, cfg.OTPTTL())
	reportService := services.NewReportService(store, eventService)
	classifier := inference.NewHTTPClassifier(cfg.ModelServerURL)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(hub, cfg.StatsInterval())
	go statUpdater.Run()

	// Set up and run the background OTP sweeper
	sweeper, err := monitoring.NewOTPSweeper(authService, cfg.OTPSweepSchedule)
	if err != nil {
		log.Fatalf("Failed to initialize OTP sweeper: %v", err)
	}
	go sweeper.Run()

	// Set up router
	router := api.NewRouter(cfg, tokens, hub, authService, reportService, eventService, classifier, statUpdater)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	statUpdater.Stop() // Stop the monitoring service
	sweeper.Stop()     // Stop the OTP sweeper

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
