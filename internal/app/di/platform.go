package di

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sentiment_backend/internal/app/config"
	"sentiment_backend/internal/platform/db"
	"sentiment_backend/internal/platform/http/handler"
	"sentiment_backend/internal/platform/kafka"
	infraredis "sentiment_backend/internal/platform/redis"
)

// NewRedis returns nil when Redis is not configured or unreachable; the app then runs without cache.
func NewRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if errors.Is(err, infraredis.ErrNotConfigured) {
		slog.Info("REDIS_HOST not set. Running without cache.")
		return nil
	}
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// NewDB returns nil when DB_DRIVER is empty or the connection fails; the catalog then uses fixtures.
func NewDB(cfg config.DBConfig) *gorm.DB {
	gdb, err := db.Open(db.Config{Driver: cfg.Driver, DSN: cfg.DSN})
	if errors.Is(err, db.ErrNotConfigured) {
		return nil
	}
	if err != nil {
		slog.Warn("database unavailable. Serving catalog from fixtures.", "error", err)
		return nil
	}
	return gdb
}

// NewKafkaProducer returns nil when no brokers are configured.
func NewKafkaProducer(cfg config.KafkaConfig) *kafka.Producer {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	return kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Brokers})
}

// HealthChecks builds /healthz checks for the optional backends that are present.
func HealthChecks(rdb *redis.Client, gdb *gorm.DB) []handler.Check {
	var checks []handler.Check
	if rdb != nil {
		checks = append(checks, handler.Check{Name: "redis", Fn: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	if gdb != nil {
		checks = append(checks, handler.Check{Name: "db", Fn: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	return checks
}
