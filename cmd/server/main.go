package main

import (
	"context"
	"log"

	"market_sync/internal/app/config"
	"market_sync/internal/app/di"
	"market_sync/internal/app/router"
	"market_sync/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl := logger.New(cfg.Env)
	defer func() { _ = zl.Sync() }()

	app, err := di.Build(context.Background(), cfg, zl, di.Options{})
	if err != nil {
		zl.Fatalw("failed to build application", "error", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			zl.Errorw("failed to close application", "error", err)
		}
	}()

	// 本番でトリガーが公開されたままにならないよう注意喚起
	if cfg.TriggerOpen() {
		zl.Warn("Neither SYNC_TRIGGER_SECRET nor SYNC_JWT_SECRET is set. /api/sync-stocks is open to anyone.")
	}

	r := router.NewRouter(router.DepsFromApp(app))

	zl.Infow("starting server", "port", cfg.Port, "symbols", cfg.Sync.Symbols)
	if err := r.Run(":" + cfg.Port); err != nil {
		zl.Fatalw("server stopped", "error", err)
	}
}
