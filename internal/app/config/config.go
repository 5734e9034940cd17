// Package config は環境変数（と任意の .env）からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the whole application configuration.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	N8N       N8NConfig
	Redis     RedisConfig
	DB        DBConfig
	Kafka     KafkaConfig
	Scheduler SchedulerConfig

	CacheTTL         time.Duration `envconfig:"CACHE_TTL" default:"60s"`
	PublishJWTSecret string        `envconfig:"PUBLISH_JWT_SECRET"`
	SentryDSN        string        `envconfig:"SENTRY_DSN"`
	// FixtureDir が空なら埋め込みデータセットを使います。
	FixtureDir string `envconfig:"FIXTURE_DIR"`
}

type N8NConfig struct {
	BaseURL       string        `envconfig:"N8N_BASE_URL" default:"http://localhost:5678"`
	Timeout       time.Duration `envconfig:"N8N_TIMEOUT" default:"10s"`
	HealthTimeout time.Duration `envconfig:"N8N_HEALTH_TIMEOUT" default:"5s"`
	RatePerMinute int           `envconfig:"N8N_RATE_PER_MINUTE" default:"600"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type DBConfig struct {
	Driver string `envconfig:"DB_DRIVER"`
	DSN    string `envconfig:"DB_DSN"`
}

type KafkaConfig struct {
	Brokers        []string `envconfig:"KAFKA_BROKERS"`
	AnalyticsTopic string   `envconfig:"KAFKA_ANALYTICS_TOPIC" default:"sentiment.analytics"`
}

type SchedulerConfig struct {
	Enabled     bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	HealthProbe string `envconfig:"HEALTH_PROBE_SCHEDULE" default:"@every 1m"`
	CacheWarm   string `envconfig:"CACHE_WARM_SCHEDULE" default:"@every 5m"`
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if present) and then the process environment.
// 既に設定済みの環境変数は .env で上書きされません。
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to load env file", "file", f, "error", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.N8N.RatePerMinute < 0 {
		return Config{}, fmt.Errorf("config: N8N_RATE_PER_MINUTE must not be negative")
	}
	return cfg, nil
}
