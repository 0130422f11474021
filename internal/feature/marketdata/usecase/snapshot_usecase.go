package usecase

import (
	"context"
	"strings"
	"time"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
)

// SnapshotReader abstracts read access to stored snapshots.
type SnapshotReader interface {
	// FindLatest returns the most recent snapshot for symbol or domain.ErrSnapshotNotFound.
	FindLatest(ctx context.Context, symbol string) (*entity.MarketSnapshot, error)
	// FindByDate returns the snapshot for (symbol, date) or domain.ErrSnapshotNotFound.
	FindByDate(ctx context.Context, symbol string, date time.Time) (*entity.MarketSnapshot, error)
}

// SnapshotStore is the full store contract implemented by the adapters.
type SnapshotStore interface {
	SnapshotRepository
	SnapshotReader
}

// SnapshotUsecase serves stored snapshots.
type SnapshotUsecase struct {
	reader SnapshotReader
}

// NewSnapshotUsecase creates a SnapshotUsecase. reader may be nil when the
// store is not configured; lookups then fail with a configuration error.
func NewSnapshotUsecase(reader SnapshotReader) *SnapshotUsecase {
	return &SnapshotUsecase{reader: reader}
}

// GetSnapshot returns the snapshot for symbol on date, or the latest one when date is nil.
func (u *SnapshotUsecase) GetSnapshot(ctx context.Context, symbol string, date *time.Time) (*entity.MarketSnapshot, error) {
	if u.reader == nil {
		return nil, &domain.ConfigurationError{Missing: []string{"snapshot store"}}
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if date == nil {
		return u.reader.FindLatest(ctx, symbol)
	}
	return u.reader.FindByDate(ctx, symbol, entity.DateOf(*date))
}
