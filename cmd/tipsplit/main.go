package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/tipsplitter/internal/cli"
	"github.com/mmynk/tipsplitter/internal/config"
	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/storage"
	"github.com/mmynk/tipsplitter/internal/storage/memory"
	"github.com/mmynk/tipsplitter/internal/storage/postgres"
	"github.com/mmynk/tipsplitter/internal/storage/sqlite"
	"github.com/mmynk/tipsplitter/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.LoadOrEnv(os.Getenv("TIPSPLIT_CONFIG"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.Logging.Level)
	slog.SetDefault(logger)

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Debug("Storage initialized", "driver", cfg.Storage.Driver)

	reg := prometheus.NewRegistry()
	app := cli.NewApp(cfg, store, logger, metrics.New(reg))

	runErr := cli.NewRootCmd(app).ExecuteContext(ctx)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			logger.Error("Failed to write metrics", "path", path, "error", err)
		}
	}
	return runErr
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.Storage.DSN, postgres.WithPollInterval(cfg.Storage.PollInterval))
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.New(cfg.Storage.Path, sqlite.WithPollInterval(cfg.Storage.PollInterval))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return store, nil
	}
}
