// Package financego is a fallback QuoteProvider built on piquette/finance-go.
// It has no company profile, so sector, industry and raw_profile stay empty.
package financego

import (
	"context"
	"fmt"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/usecase"
)

// Source is stored on every snapshot this provider produces.
const Source = "finance-go"

// Fetcher loads one equity quote.
type Fetcher func(symbol string) (*finance.Equity, error)

// Provider adapts finance-go's equity quote to usecase.QuoteProvider.
type Provider struct {
	fetch Fetcher
}

var _ usecase.QuoteProvider = (*Provider)(nil)

// NewProvider returns a provider using equity.Get.
func NewProvider() *Provider {
	return &Provider{fetch: equity.Get}
}

// NewProviderWithFetcher returns a provider using fetch.
func NewProviderWithFetcher(fetch Fetcher) *Provider {
	return &Provider{fetch: fetch}
}

func (p *Provider) Source() string { return Source }

// QuoteSummary maps the equity quote onto the quote summary modules.
// finance-go reports missing numbers as zero, so zero is treated as absent.
func (p *Provider) QuoteSummary(ctx context.Context, symbol string) (*entity.QuoteSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eq, err := p.fetch(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go: %w", err)
	}
	if eq == nil {
		return nil, fmt.Errorf("finance-go: no quote for %s", symbol)
	}

	return &entity.QuoteSummary{
		Price: &entity.PriceModule{
			RegularMarketPrice:      nonZero(eq.RegularMarketPrice),
			MarketCap:               nonZero(eq.MarketCap),
			AverageDailyVolume10Day: nonZero(eq.AverageDailyVolume10Day),
		},
		SummaryDetail: &entity.SummaryDetailModule{
			AverageVolume: nonZero(eq.AverageDailyVolume3Month),
			TrailingPE:    nonZero(eq.TrailingPE),
		},
		KeyStatistics: &entity.KeyStatisticsModule{
			TrailingEps: nonZero(eq.EpsTrailingTwelveMonths),
		},
	}, nil
}

func nonZero[T ~int | ~int64 | ~float64](v T) decimal.NullDecimal {
	if v == 0 {
		return decimal.NullDecimal{}
	}
	switch x := any(v).(type) {
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(x))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(x))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(x)))
	default:
		return decimal.NewNullDecimal(decimal.NewFromFloat(float64(v)))
	}
}
