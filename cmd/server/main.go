package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentiment_backend/internal/app/config"
	"sentiment_backend/internal/app/di"
	"sentiment_backend/internal/app/router"
	sentimenthandler "sentiment_backend/internal/feature/sentiment/transport/handler"
	"sentiment_backend/internal/platform/errtrack"
	platformhandler "sentiment_backend/internal/platform/http/handler"
	"sentiment_backend/internal/platform/logger"
	"sentiment_backend/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.Init(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if enabled, err := errtrack.Init(cfg.SentryDSN, cfg.AppEnv); err != nil {
		slog.Warn("Sentry disabled", "error", err)
	} else if enabled {
		defer errtrack.Flush()
	}

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 任意のバックエンド。未設定・接続不可なら nil で縮退する
	rdb := di.NewRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}
	gdb := di.NewDB(cfg.DB)
	producer := di.NewKafkaProducer(cfg.Kafka)

	s := di.NewSentiment(ctx, cfg, rdb, gdb, producer)

	sch, err := di.NewScheduler(cfg.Scheduler, s)
	if err != nil {
		slog.Error("failed to configure scheduler", "error", err)
		os.Exit(1)
	}
	if sch != nil {
		sch.Start()
		for name, next := range sch.Jobs() {
			slog.Info("job registered", "job", name, "next", next)
		}
	}

	if cfg.PublishJWTSecret == "" {
		slog.Warn("PUBLISH_JWT_SECRET is not set. POST /reddit-sentiment is unauthenticated.")
	}

	r := router.NewRouter(router.Handlers{
		Sentiment: sentimenthandler.NewSentimentHandler(s.Resolver),
		Stocks:    sentimenthandler.NewStockHandler(s.Catalog),
		Health:    platformhandler.NewHealth(di.HealthChecks(rdb, gdb)...),
	}, cfg.PublishJWTSecret)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.HTTPAddr, "n8n", cfg.N8N.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if sch != nil {
		select {
		case <-sch.Stop().Done():
		case <-shutdownCtx.Done():
			slog.Warn("scheduled jobs did not stop in time")
		}
	}
	// 切り離された解析送信を待ってから Kafka を閉じる
	s.Resolver.Drain()
	if producer != nil {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close Kafka producer", "error", err)
		}
	}
}
