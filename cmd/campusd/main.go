package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"campus-backend/config"
	"campus-backend/internal/api"
	"campus-backend/internal/auth"
	"campus-backend/internal/db"
	"campus-backend/internal/notification"
	"campus-backend/internal/store"
)

func newLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	log := newLogger(cfg.Log)
	log.Infof("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormLevel := logger.Info
	if cfg.Server.IsProduction() {
		gormLevel = logger.Warn
	}
	gormDB, err := db.Init(&cfg.Database, log, gormLevel)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}()
	log.Info("database initialized successfully")

	appStore := store.NewGormStore(gormDB)

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("failed to create token issuer: %v", err)
	}
	authSvc := auth.NewService(appStore, issuer, cfg.Auth.BcryptCost, log)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := api.Deps{
		Store: appStore,
		Auth:  authSvc,
		Log:   log,
	}

	// Push delivery is optional; without VAPID keys notifications are only stored.
	var pool *notification.WorkerPool
	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, log)
		pool.Start(ctx)
		deps.Push = pool
		deps.WebPush = webpushOptions
		log.Infof("push worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		log.Warn("VAPID keys not configured, web push delivery disabled")
	}

	// Initialize router
	router := api.NewRouter(&cfg.Server, deps)
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		log.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	log.Info("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server Shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}

	log.Info("Server gracefully stopped")
}
