package entity

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewBatchResult_EmptyListsAreNotNil(t *testing.T) {
	t.Parallel()

	r := NewBatchResult()

	b, err := json.Marshal(struct {
		S []SymbolSuccess
		F []SymbolFailure
	}{r.Successes, r.Failures})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"S":[],"F":[]}`, string(b))
	assert.Equal(t, 0, r.Processed)
}

func TestBatchResult_AddSuccessAndFailure(t *testing.T) {
	t.Parallel()

	r := NewBatchResult()
	r.AddSuccess(&MarketSnapshot{
		Symbol:    "AAPL",
		Price:     decimal.NewNullDecimal(decimal.NewFromInt(150)),
		MarketCap: decimal.NullDecimal{},
	})
	r.AddFailure("MSFT", errors.New("boom"))

	assert.Equal(t, []SymbolSuccess{{
		Symbol:    "AAPL",
		Price:     decimal.NewNullDecimal(decimal.NewFromInt(150)),
		MarketCap: decimal.NullDecimal{},
	}}, r.Successes)
	assert.Equal(t, []SymbolFailure{{Symbol: "MSFT", Error: "boom"}}, r.Failures)
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{
			name:     "utc midday",
			in:       time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC),
			expected: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "ahead of utc rolls back a day",
			in:       time.Date(2024, 1, 2, 5, 0, 0, 0, time.FixedZone("JST", 9*60*60)),
			expected: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DateOf(tt.in))
		})
	}
}
