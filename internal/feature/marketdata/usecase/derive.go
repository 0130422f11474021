package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"market_sync/internal/feature/marketdata/domain/entity"
)

// fieldSource is one step of a fallback chain: a named provider field and
// the function that extracts it from a quote summary.
type fieldSource struct {
	name    string
	extract func(q *entity.QuoteSummary) decimal.NullDecimal
}

// fallbackChain resolves a snapshot field from the first source that yields a value.
type fallbackChain []fieldSource

func (c fallbackChain) resolve(q *entity.QuoteSummary) decimal.NullDecimal {
	for _, src := range c {
		if v := src.extract(q); v.Valid {
			return v
		}
	}
	return decimal.NullDecimal{}
}

var (
	priceChain = fallbackChain{
		{name: "price.regularMarketPrice", extract: regularMarketPrice},
	}
	marketCapChain = fallbackChain{
		{name: "price.marketCap", extract: marketCap},
	}
	epsChain = fallbackChain{
		{name: "defaultKeyStatistics.trailingEps", extract: trailingEps},
	}
	peRatioChain = fallbackChain{
		{name: "defaultKeyStatistics.trailingPE", extract: statsTrailingPE},
		{name: "summaryDetail.trailingPE", extract: detailTrailingPE},
		{name: "price.regularMarketPrice / defaultKeyStatistics.trailingEps", extract: priceOverEPS},
	}
	volumeAvgChain = fallbackChain{
		{name: "summaryDetail.averageVolume", extract: averageVolume},
		{name: "price.averageDailyVolume10Day", extract: averageDailyVolume10Day},
	}
)

func regularMarketPrice(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.Price == nil {
		return decimal.NullDecimal{}
	}
	return q.Price.RegularMarketPrice
}

func marketCap(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.Price == nil {
		return decimal.NullDecimal{}
	}
	return q.Price.MarketCap
}

func averageDailyVolume10Day(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.Price == nil {
		return decimal.NullDecimal{}
	}
	return q.Price.AverageDailyVolume10Day
}

func averageVolume(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.SummaryDetail == nil {
		return decimal.NullDecimal{}
	}
	return q.SummaryDetail.AverageVolume
}

func detailTrailingPE(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.SummaryDetail == nil {
		return decimal.NullDecimal{}
	}
	return q.SummaryDetail.TrailingPE
}

func trailingEps(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.KeyStatistics == nil {
		return decimal.NullDecimal{}
	}
	return q.KeyStatistics.TrailingEps
}

func statsTrailingPE(q *entity.QuoteSummary) decimal.NullDecimal {
	if q.KeyStatistics == nil {
		return decimal.NullDecimal{}
	}
	return q.KeyStatistics.TrailingPE
}

// priceOverEPS derives P/E from price and trailing EPS. A zero EPS yields null.
func priceOverEPS(q *entity.QuoteSummary) decimal.NullDecimal {
	price := regularMarketPrice(q)
	eps := trailingEps(q)
	if !price.Valid || !eps.Valid || eps.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(price.Decimal.Div(eps.Decimal))
}

// profileString returns the non-empty string stored under key in the asset profile.
func profileString(profile map[string]any, key string) *string {
	s, ok := profile[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// normalize builds a snapshot from a provider response. Every field that the
// provider left out comes back as null.
func normalize(symbol, source string, q *entity.QuoteSummary, now time.Time) *entity.MarketSnapshot {
	profile := make(map[string]any, len(q.AssetProfile))
	for k, v := range q.AssetProfile {
		profile[k] = v
	}

	return &entity.MarketSnapshot{
		Symbol:     symbol,
		Date:       entity.DateOf(now),
		Price:      priceChain.resolve(q),
		MarketCap:  marketCapChain.resolve(q),
		VolumeAvg:  volumeAvgChain.resolve(q),
		PERatio:    peRatioChain.resolve(q),
		EPS:        epsChain.resolve(q),
		Sector:     profileString(q.AssetProfile, "sector"),
		Industry:   profileString(q.AssetProfile, "industry"),
		Source:     source,
		RawProfile: profile,
	}
}
