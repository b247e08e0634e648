package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/api"
	"github.com/longevity-snapshot-server/internal/cache"
	"github.com/longevity-snapshot-server/internal/config"
	"github.com/longevity-snapshot-server/internal/database"
	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/history"
	"github.com/longevity-snapshot-server/internal/orchestrator"
	"github.com/longevity-snapshot-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"storage": cfg.Storage.Backend,
	}).Info("Starting longevity snapshot server")

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Assessment pipeline
	processor, err := orchestrator.New(logger, cfg.Nutrition.WeightUnit)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build assessment pipeline")
	}

	// History store
	store, err := newStore(ctx, configManager, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open history store")
	}
	defer store.Close()

	// Result cache
	resultCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create result cache")
	}
	defer resultCache.Close()

	svc := service.NewAssessmentService(logger, processor, store, resultCache)
	server := api.NewServer(cfg, svc, logger)

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newStore opens the configured history backend. The postgres branch
// optionally applies migrations first; the returned store owns the
// connection pool.
func newStore(ctx context.Context, configManager *config.Manager, logger *logrus.Logger) (history.Store, error) {
	cfg := configManager.GetConfig()

	switch cfg.Storage.Backend {
	case "postgres":
		if cfg.Storage.RunMigrations {
			runner, err := database.NewMigrationRunner(
				configManager.GetMigrationDatabaseURL(),
				cfg.Storage.MigrationsPath,
				logger,
			)
			if err != nil {
				return nil, err
			}
			if err := runner.Up(ctx); err != nil {
				runner.Close()
				return nil, err
			}
			runner.Close()
		}

		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		store, err := history.NewPostgresStore(ctx, db.Pool)
		if err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	default:
		return history.NewSQLiteStore(cfg.Storage.SQLitePath)
	}
}

// newLogger builds the process logger from configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch cfg.Output {
	case "stderr":
		logger.SetOutput(os.Stderr)
	default:
		logger.SetOutput(os.Stdout)
	}

	return logger
}
