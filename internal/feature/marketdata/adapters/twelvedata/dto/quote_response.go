// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// ErrorEnvelope is returned in place of a payload, often with HTTP 200.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QuoteResponse represents the JSON response from the Twelve Data quote endpoint.
type QuoteResponse struct {
	ErrorEnvelope
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Close         Number `json:"close"`
	AverageVolume Number `json:"average_volume"`
}

// StatisticsResponse represents the JSON response from the Twelve Data statistics endpoint.
type StatisticsResponse struct {
	ErrorEnvelope
	Statistics struct {
		ValuationsMetrics struct {
			MarketCapitalization Number `json:"market_capitalization"`
			TrailingPE           Number `json:"trailing_pe"`
		} `json:"valuations_metrics"`
		Financials struct {
			IncomeStatement struct {
				DilutedEPSTTM Number `json:"diluted_eps_ttm"`
			} `json:"income_statement"`
		} `json:"financials"`
		StockStatistics struct {
			Avg10Volume Number `json:"avg_10_volume"`
		} `json:"stock_statistics"`
	} `json:"statistics"`
}

// Number accepts a JSON number or a numeric string. Empty strings and
// unparsable values decode as null.
type Number struct {
	decimal.NullDecimal
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte(`""`)) {
		return nil
	}
	var d decimal.NullDecimal
	if d.UnmarshalJSON(b) == nil {
		n.NullDecimal = d
	}
	return nil
}
