// Package db opens the gorm connection used by the SQL snapshot store.
package db

import (
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config describes one SQL connection.
type Config struct {
	Driver        string // "postgres" or "sqlite"
	URL           string // postgres URL or sqlite file
	Password      string // injected into a postgres URL that has none
	Timeout       time.Duration
	RunMigrations bool
}

// Opener opens a gorm connection for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

const retryInterval = 3 * time.Second

// BuildDSN returns the DSN for cfg. For postgres the password is set on the
// URL unless the URL already carries one.
func BuildDSN(cfg Config) (string, error) {
	if cfg.Driver == "sqlite" {
		return cfg.URL, nil
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("store url scheme %q is not postgres", u.Scheme)
	}
	if cfg.Password != "" && u.User != nil {
		if _, set := u.User.Password(); !set {
			u.User = url.UserPassword(u.User.Username(), cfg.Password)
		}
	}
	return u.String(), nil
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener, log *zap.SugaredLogger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		log.Warnw("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenerFor returns the gorm opener for driver.
func OpenerFor(driver string) (Opener, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch driver {
	case "postgres":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), cfg) }, nil
	case "sqlite":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), cfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
}

// Open connects with retry and, when enabled, migrates models.
func Open(cfg Config, log *zap.SugaredLogger, models ...any) (*gorm.DB, error) {
	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(dsn, cfg.Timeout, open, log)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations && len(models) > 0 {
		// マイグレーション
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
