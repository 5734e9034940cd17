// Command seed は同梱の銘柄データを SQL カタログに投入します。
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"sentiment_backend/internal/app/config"
	"sentiment_backend/internal/feature/sentiment/adapters/catalog"
	"sentiment_backend/internal/feature/sentiment/adapters/fixtures"
	"sentiment_backend/internal/platform/db"
	"sentiment_backend/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if zl, err := logger.Init(cfg.LogLevel, cfg.AppEnv); err == nil {
		defer func() { _ = zl.Sync() }()
	}

	gdb, err := db.Open(db.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := catalog.Migrate(gdb.WithContext(ctx)); err != nil {
		return err
	}

	stocks := fixtures.New(fixtures.FS(cfg.FixtureDir)).StockOptions()
	if err := catalog.NewStockRepository(gdb).UpsertBatch(ctx, stocks); err != nil {
		return err
	}
	slog.Info("seed ok", "stocks", len(stocks), "driver", cfg.DB.Driver)
	return nil
}
