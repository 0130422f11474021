package di

import (
	"fmt"

	"go.uber.org/zap"

	"market_sync/internal/app/config"
	"market_sync/internal/feature/marketdata/adapters"
	"market_sync/internal/feature/marketdata/usecase"
	"market_sync/internal/platform/db"
	infrahttp "market_sync/internal/platform/http"
)

// NewSnapshotStore creates the store selected by STORE_DRIVER.
// Missing credentials are returned as *domain.ConfigurationError.
func NewSnapshotStore(cfg config.StoreConfig, log *zap.SugaredLogger) (usecase.SnapshotStore, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case "rest", "":
		httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
		return adapters.NewSnapshotREST(cfg.Credentials.URL, cfg.Credentials.ServiceKey, httpClient), nil
	case "postgres", "sqlite":
		gdb, err := db.Open(db.Config{
			Driver:        cfg.Driver,
			URL:           cfg.Credentials.URL,
			Password:      cfg.Credentials.ServiceKey,
			Timeout:       cfg.Timeout,
			RunMigrations: cfg.RunMigrations,
		}, log, &adapters.DailyMarketDataModel{})
		if err != nil {
			return nil, err
		}
		return adapters.NewSnapshotRepository(gdb), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
