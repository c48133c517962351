package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/internal/bootstrap"
	"github.com/johnquangdev/clientpulse/internal/cli"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/alert"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/cache"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/database"
	"github.com/johnquangdev/clientpulse/internal/infrastructure/storage"
	"github.com/johnquangdev/clientpulse/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(deps(cfg, logger))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func deps(cfg *config.Config, logger *zap.Logger) cli.Deps {
	return cli.Deps{
		Runner: func(ctx context.Context) (cli.SyncRunner, func(), error) {
			app, err := bootstrap.New(ctx, cfg, logger)
			if err != nil {
				return nil, nil, err
			}
			return app.Scheduler, app.Close, nil
		},
		Migrator: func(ctx context.Context) (cli.Migrator, func(), error) {
			db, err := database.NewPostgresDB(cfg, logger)
			if err != nil {
				return nil, nil, err
			}
			return bootstrap.NewMigrator(db, cfg, logger), func() { _ = database.CloseDB(db) }, nil
		},
		Alerts: func(ctx context.Context) (cli.AlertReader, func(), error) {
			client, err := cache.NewRedisClient(ctx, cfg)
			if err != nil {
				return nil, nil, err
			}
			reader := alert.NewRedisAlerter(client, cfg.Redis.AlertChannel, cfg.Redis.AlertHistory, logger)
			return reader, func() { _ = client.Close() }, nil
		},
		Uploader: func(ctx context.Context) (cli.Uploader, func(), error) {
			store, err := storage.NewMinIOClient(ctx, &cfg.Storage)
			if err != nil {
				return nil, nil, fmt.Errorf("document bucket unavailable: %w", err)
			}
			return store, func() {}, nil
		},
	}
}
