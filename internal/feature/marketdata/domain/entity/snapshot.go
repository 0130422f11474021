// Package entity defines the domain models for the marketdata feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketSnapshot is one point-in-time record of a symbol's market data.
// A snapshot is identified by (Symbol, Date); persisting another snapshot
// for the same pair replaces the stored one.
type MarketSnapshot struct {
	Symbol    string              // Ticker symbol (e.g., "AAPL")
	Date      time.Time           // UTC calendar date of acquisition, time component zeroed
	Price     decimal.NullDecimal // Last traded price
	MarketCap decimal.NullDecimal // Market capitalization
	VolumeAvg decimal.NullDecimal // Average daily volume
	PERatio   decimal.NullDecimal // Price/earnings ratio
	EPS       decimal.NullDecimal // Trailing earnings per share
	Sector    *string             // Company sector
	Industry  *string             // Company industry
	Source    string              // Provider identifier
	// RawProfile is the provider's company profile, stored verbatim.
	RawProfile map[string]any
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
