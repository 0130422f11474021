package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"market_sync/internal/feature/marketdata/domain/entity"
)

var (
	ErrProviderDown = errors.New("provider unavailable")
	ErrDB           = errors.New("database error")
)

// mockQuoteProvider is a mock implementation of the QuoteProvider interface.
type mockQuoteProvider struct {
	QuoteSummaryFunc  func(ctx context.Context, symbol string) (*entity.QuoteSummary, error)
	QuoteSummaryCalls int
	SourceName        string
}

func (m *mockQuoteProvider) QuoteSummary(ctx context.Context, symbol string) (*entity.QuoteSummary, error) {
	m.QuoteSummaryCalls++
	if m.QuoteSummaryFunc != nil {
		return m.QuoteSummaryFunc(ctx, symbol)
	}
	return nil, errors.New("QuoteSummaryFunc is not implemented")
}

func (m *mockQuoteProvider) Source() string {
	if m.SourceName == "" {
		return "mock"
	}
	return m.SourceName
}

// mockSnapshotRepository is a mock implementation of the SnapshotRepository interface.
type mockSnapshotRepository struct {
	UpsertFunc func(ctx context.Context, s *entity.MarketSnapshot) error
	Upserted   []*entity.MarketSnapshot
}

func (m *mockSnapshotRepository) Upsert(ctx context.Context, s *entity.MarketSnapshot) error {
	if m.UpsertFunc != nil {
		if err := m.UpsertFunc(ctx, s); err != nil {
			return err
		}
	}
	m.Upserted = append(m.Upserted, s)
	return nil
}

// mockPreconditions returns Err from Validate.
type mockPreconditions struct {
	Err error
}

func (m mockPreconditions) Validate() error { return m.Err }

// recordingMetrics counts the calls it receives.
type recordingMetrics struct {
	attemptsOK, attemptsFailed int
	symbolsOK, symbolsFailed   int
	runs                       []time.Duration
}

func (m *recordingMetrics) RecordAttempt(success bool) {
	if success {
		m.attemptsOK++
	} else {
		m.attemptsFailed++
	}
}

func (m *recordingMetrics) RecordSymbol(success bool) {
	if success {
		m.symbolsOK++
	} else {
		m.symbolsFailed++
	}
}

func (m *recordingMetrics) ObserveRun(d time.Duration) {
	m.runs = append(m.runs, d)
}

func dec(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// quoteWith builds a quote summary with price and market cap set.
func quoteWith(price, marketCap float64) *entity.QuoteSummary {
	return &entity.QuoteSummary{
		Price: &entity.PriceModule{
			RegularMarketPrice: dec(price),
			MarketCap:          dec(marketCap),
		},
	}
}
