package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"betledger/internal/amqp"
	"betledger/internal/backend"
	"betledger/internal/config"
	apphttp "betledger/internal/http"
	"betledger/internal/ledger"
	applog "betledger/internal/log"
	"betledger/internal/middleware/ratelimit"
	"betledger/internal/prefs"
)

func main() {
	// Load .env for local development; missing files are fine.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := backend.Open(backend.Config{
		Type:       backend.Type(cfg.StorageBackend),
		SQLitePath: cfg.SQLiteDBPath,
	}, logger.WithComponent(applog.ComponentBackend).Logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer store.Close()

	// The archive publisher is optional: without a broker the ledger simply
	// skips notifications.
	var publisher ledger.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Archive publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Archive publishing disabled - no AMQP_URL provided")
	}

	svc := ledger.New(store, prefs.NewStore(cfg.DataDir), publisher)
	if err := svc.Load(context.Background()); err != nil {
		logger.Error("Failed to load ledger state", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.Options{
		StatsCacheSize: cfg.StatsCacheSize,
		StatsCacheTTL:  cfg.StatsCacheTTL,
		RateLimit:      ratelimit.DefaultConfig(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting betledger server", "port", cfg.Port, "backend", cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
