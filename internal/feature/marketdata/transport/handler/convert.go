package handler

import (
	"github.com/shopspring/decimal"

	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/transport/http/dto"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func floatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func toSuccessItems(in []entity.SymbolSuccess) []dto.SuccessItem {
	out := make([]dto.SuccessItem, 0, len(in))
	for _, s := range in {
		out = append(out, dto.SuccessItem{
			Symbol:    s.Symbol,
			Price:     floatPtr(s.Price),
			MarketCap: floatPtr(s.MarketCap),
		})
	}
	return out
}

func toFailureItems(in []entity.SymbolFailure) []dto.FailureItem {
	out := make([]dto.FailureItem, 0, len(in))
	for _, f := range in {
		out = append(out, dto.FailureItem{Symbol: f.Symbol, Error: f.Error})
	}
	return out
}

// ToSyncResponse renders a batch result in the shape returned by /api/sync-stocks.
func ToSyncResponse(r *entity.BatchResult) dto.SyncResponse {
	return dto.SyncResponse{
		Processed: r.Processed,
		Successes: toSuccessItems(r.Successes),
		Failures:  toFailureItems(r.Failures),
		Timestamp: r.Timestamp.UTC().Format(timestampLayout),
	}
}

func toSyncErrorResponse(err error, r *entity.BatchResult) dto.SyncErrorResponse {
	if r == nil {
		r = entity.NewBatchResult()
	}
	return dto.SyncErrorResponse{
		Error:     err.Error(),
		Processed: r.Processed,
		Successes: toSuccessItems(r.Successes),
		Failures:  toFailureItems(r.Failures),
	}
}

func toSnapshotResponse(s *entity.MarketSnapshot) dto.SnapshotResponse {
	profile := s.RawProfile
	if profile == nil {
		profile = map[string]any{}
	}
	return dto.SnapshotResponse{
		Symbol:     s.Symbol,
		Date:       s.Date.UTC().Format("2006-01-02"),
		Price:      floatPtr(s.Price),
		MarketCap:  floatPtr(s.MarketCap),
		VolumeAvg:  floatPtr(s.VolumeAvg),
		PERatio:    floatPtr(s.PERatio),
		EPS:        floatPtr(s.EPS),
		Sector:     s.Sector,
		Industry:   s.Industry,
		Source:     s.Source,
		RawProfile: profile,
	}
}
