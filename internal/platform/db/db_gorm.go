// Package db は銘柄カタログ用の gorm 接続を生成します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	retryInterval = 3 * time.Second
)

var (
	// ErrNotConfigured は DB_DRIVER が空であることを示します。カタログはフィクスチャのみになります。
	ErrNotConfigured     = errors.New("db: driver not configured")
	ErrUnsupportedDriver = errors.New("db: unsupported driver")
)

// Config holds database connection settings.
type Config struct {
	Driver string
	DSN    string
	// ConnectTimeout は接続リトライを打ち切るまでの時間です。0 なら 30 秒。
	ConnectTimeout time.Duration
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor returns the Opener of the configured driver.
func OpenerFor(driver string) (Opener, error) {
	var dial func(string) gorm.Dialector
	switch driver {
	case "":
		return nil, ErrNotConfigured
	case DriverSQLite:
		dial = sqlite.Open
	case DriverPostgres:
		dial = postgres.Open
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dial(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}, nil
}

// Open は設定に従って接続し、失敗時は ConnectTimeout までリトライします。
func Open(cfg Config) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return ConnectWithRetry(cfg.DSN, timeout, opener)
}

// ConnectWithRetry は opener が成功するまで一定間隔で再試行します。
// 次の試行が期限を超える場合は最後のエラーを返します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(retryInterval)
	}
}
