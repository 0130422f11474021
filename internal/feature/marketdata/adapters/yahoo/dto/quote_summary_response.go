// Package dto defines data transfer objects for the Yahoo Finance quoteSummary API.
package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// QuoteSummaryResponse represents the JSON response of /v10/finance/quoteSummary.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *APIError            `json:"error"`
	} `json:"quoteSummary"`
}

// APIError is the error object Yahoo embeds in the envelope.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteSummaryResult holds the requested modules. Modules Yahoo did not
// return stay nil.
type QuoteSummaryResult struct {
	Price                *Price         `json:"price"`
	SummaryDetail        *SummaryDetail `json:"summaryDetail"`
	DefaultKeyStatistics *KeyStatistics `json:"defaultKeyStatistics"`
	AssetProfile         map[string]any `json:"assetProfile"`
}

type Price struct {
	RegularMarketPrice      Value `json:"regularMarketPrice"`
	MarketCap               Value `json:"marketCap"`
	AverageDailyVolume10Day Value `json:"averageDailyVolume10Day"`
}

type SummaryDetail struct {
	AverageVolume Value `json:"averageVolume"`
	TrailingPE    Value `json:"trailingPE"`
}

type KeyStatistics struct {
	TrailingEps Value `json:"trailingEps"`
	TrailingPE  Value `json:"trailingPE"`
}

// Value is Yahoo's formatted number, e.g. {"raw": 189.3, "fmt": "189.30"}.
// An empty object, a missing field, or a non-numeric raw such as
// "Infinity" leaves Raw null.
type Value struct {
	Raw decimal.NullDecimal
	Fmt string
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var w struct {
		Raw json.RawMessage `json:"raw"`
		Fmt string          `json:"fmt"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		// Some fields are plain numbers instead of objects
		var n decimal.NullDecimal
		if n.UnmarshalJSON(b) == nil {
			v.Raw = n
		}
		return nil
	}
	v.Fmt = w.Fmt
	if len(w.Raw) == 0 {
		return nil
	}
	var n decimal.NullDecimal
	if err := n.UnmarshalJSON(w.Raw); err == nil {
		v.Raw = n
	}
	return nil
}
