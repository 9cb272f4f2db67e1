package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"betledger/internal/amqp"
	"betledger/internal/archive"
	"betledger/internal/archive/csvfile"
	"betledger/internal/archive/gsheet"
	"betledger/internal/backend"
	"betledger/internal/config"
	applog "betledger/internal/log"
	"betledger/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting betledger-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("Worker requires AMQP_URL to consume archive messages")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var appender archive.Appender
	switch cfg.ArchiveBackend {
	case "gsheet":
		appender, err = gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleCredFile)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets archive", "error", err)
			os.Exit(1)
		}
		logger.Info("Archiving to Google Sheets",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	default:
		appender, err = csvfile.New(cfg.ArchiveCSVPath)
		if err != nil {
			logger.Error("Failed to initialize CSV archive", "error", err)
			os.Exit(1)
		}
		logger.Info("Archiving to CSV file", "path", cfg.ArchiveCSVPath)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	archiveWorker := worker.NewArchiveWorker(store, appender)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, func(msg *amqp.EntryMessage) error {
			return archiveWorker.HandleMessage(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
