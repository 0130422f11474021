// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"go.uber.org/zap"

	"market_sync/internal/app/config"
	"market_sync/internal/feature/marketdata/adapters/financego"
	"market_sync/internal/feature/marketdata/adapters/twelvedata"
	"market_sync/internal/feature/marketdata/adapters/yahoo"
	"market_sync/internal/feature/marketdata/usecase"
	infrahttp "market_sync/internal/platform/http"
)

// NewQuoteProvider creates the provider selected by QUOTE_PROVIDER.
func NewQuoteProvider(cfg config.ProviderConfig, log *zap.SugaredLogger) (usecase.QuoteProvider, error) {
	switch cfg.Name {
	case "yahoo", "":
		httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
		return yahoo.NewClient(yahoo.Config{
			BaseURL:   cfg.BaseURL,
			CookieURL: cfg.CookieURL,
			UserAgent: cfg.UserAgent,
		}, httpClient, log), nil
	case "financego":
		return financego.NewProvider(), nil
	case "twelvedata":
		return twelvedata.NewClient(twelvedata.Config{
			APIKey:  cfg.TwelveDataAPIKey,
			BaseURL: cfg.TwelveDataBaseURL,
		}, infrahttp.NewHTTPClient(cfg.Timeout), log), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", cfg.Name)
	}
}
