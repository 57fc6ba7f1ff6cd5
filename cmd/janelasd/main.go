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

	"github.com/SherClockHolmes/webpush-go"

	"janelas-backend/config"
	"janelas-backend/internal/alert"
	"janelas-backend/internal/api"
	"janelas-backend/internal/db"
	"janelas-backend/internal/model"
	"janelas-backend/internal/source"
	"janelas-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "janelas-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// VAPID keys are only mandatory when push alerts are on.
	if cfg.Alert.Enabled && (cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "") {
		logger.Fatalf("alerts are enabled but VAPID keys are not configured")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	tz, err := time.LoadLocation(cfg.Source.Timezone)
	if err != nil {
		logger.Fatalf("invalid timezone %q: %v", cfg.Source.Timezone, err)
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	if err := appStore.EnsureTerminals(ctx, model.DefaultTerminals()); err != nil {
		logger.Fatalf("failed to seed terminals: %v", err)
	}
	logger.Println("data store initialized")

	client, err := source.NewClient(ctx, cfg.Source.CredentialsPath)
	if err != nil {
		logger.Fatalf("failed to initialize spreadsheet client: %v", err)
	}
	loader := source.NewLoader(client, &cfg.Source)

	// Next-window push alerts run in the background off the same loader.
	watcher := alert.NewWatcher(cfg, loader, appStore, tz)
	go watcher.Run(ctx)

	router := api.NewRouter(cfg, loader, appStore, &webpushOptions, tz)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
