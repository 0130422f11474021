package entity

import "github.com/shopspring/decimal"

// QuoteSummary is a provider response keyed by module. Any module may be nil
// when the provider did not return it.
type QuoteSummary struct {
	Price         *PriceModule
	SummaryDetail *SummaryDetailModule
	KeyStatistics *KeyStatisticsModule
	AssetProfile  map[string]any
}

// PriceModule carries the provider's price module fields.
type PriceModule struct {
	RegularMarketPrice      decimal.NullDecimal
	MarketCap               decimal.NullDecimal
	AverageDailyVolume10Day decimal.NullDecimal
}

// SummaryDetailModule carries the provider's summary-detail module fields.
type SummaryDetailModule struct {
	AverageVolume decimal.NullDecimal
	TrailingPE    decimal.NullDecimal
}

// KeyStatisticsModule carries the provider's key-statistics module fields.
type KeyStatisticsModule struct {
	TrailingEps decimal.NullDecimal
	TrailingPE  decimal.NullDecimal
}
