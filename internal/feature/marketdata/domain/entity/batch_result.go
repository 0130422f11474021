package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SymbolSuccess summarizes a symbol that was acquired and persisted.
type SymbolSuccess struct {
	Symbol    string
	Price     decimal.NullDecimal
	MarketCap decimal.NullDecimal
}

// SymbolFailure records a symbol that failed acquisition or persistence.
type SymbolFailure struct {
	Symbol string
	Error  string
}

// BatchResult is the in-memory summary of one sync invocation.
type BatchResult struct {
	Processed int
	Successes []SymbolSuccess
	Failures  []SymbolFailure
	Timestamp time.Time
}

// NewBatchResult returns an empty result whose lists are non-nil,
// so they serialize as [] rather than null.
func NewBatchResult() *BatchResult {
	return &BatchResult{
		Successes: []SymbolSuccess{},
		Failures:  []SymbolFailure{},
	}
}

// AddSuccess appends a success summary for s.
func (r *BatchResult) AddSuccess(s *MarketSnapshot) {
	r.Successes = append(r.Successes, SymbolSuccess{
		Symbol:    s.Symbol,
		Price:     s.Price,
		MarketCap: s.MarketCap,
	})
}

// AddFailure appends a failure record for symbol.
func (r *BatchResult) AddFailure(symbol string, err error) {
	r.Failures = append(r.Failures, SymbolFailure{Symbol: symbol, Error: err.Error()})
}
