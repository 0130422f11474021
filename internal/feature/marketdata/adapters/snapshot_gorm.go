// Package adapters implements the marketdata store contracts on top of gorm
// and of a PostgREST endpoint.
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/feature/marketdata/usecase"
)

type snapshotGorm struct {
	db *gorm.DB
}

var _ usecase.SnapshotStore = (*snapshotGorm)(nil)

// NewSnapshotRepository returns a gorm-backed snapshot store.
func NewSnapshotRepository(db *gorm.DB) *snapshotGorm {
	return &snapshotGorm{db: db}
}

// DailyMarketDataModel is the daily_market_data row.
type DailyMarketDataModel struct {
	ID     uint      `gorm:"primaryKey"`
	Symbol string    `gorm:"size:32;not null;uniqueIndex:daily_market_data_symbol_date,priority:1"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:daily_market_data_symbol_date,priority:2"`

	Price      decimal.NullDecimal `gorm:"type:numeric"`
	MarketCap  decimal.NullDecimal `gorm:"type:numeric"`
	VolumeAvg  decimal.NullDecimal `gorm:"type:numeric"`
	PERatio    decimal.NullDecimal `gorm:"column:pe_ratio;type:numeric"`
	EPS        decimal.NullDecimal `gorm:"column:eps;type:numeric"`
	Sector     *string             `gorm:"size:128"`
	Industry   *string             `gorm:"size:128"`
	Source     string              `gorm:"size:64;not null"`
	RawProfile map[string]any      `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DailyMarketDataModel) TableName() string {
	return "daily_market_data"
}

// upsertColumns are overwritten when (symbol, date) already exists.
var upsertColumns = []string{
	"price", "market_cap", "volume_avg", "pe_ratio", "eps",
	"sector", "industry", "source", "raw_profile", "updated_at",
}

func toModel(e *entity.MarketSnapshot) DailyMarketDataModel {
	profile := e.RawProfile
	if profile == nil {
		profile = map[string]any{}
	}
	return DailyMarketDataModel{
		Symbol:     e.Symbol,
		Date:       entity.DateOf(e.Date),
		Price:      e.Price,
		MarketCap:  e.MarketCap,
		VolumeAvg:  e.VolumeAvg,
		PERatio:    e.PERatio,
		EPS:        e.EPS,
		Sector:     e.Sector,
		Industry:   e.Industry,
		Source:     e.Source,
		RawProfile: profile,
	}
}

func toEntity(m DailyMarketDataModel) *entity.MarketSnapshot {
	profile := m.RawProfile
	if profile == nil {
		profile = map[string]any{}
	}
	return &entity.MarketSnapshot{
		Symbol:     m.Symbol,
		Date:       entity.DateOf(m.Date),
		Price:      m.Price,
		MarketCap:  m.MarketCap,
		VolumeAvg:  m.VolumeAvg,
		PERatio:    m.PERatio,
		EPS:        m.EPS,
		Sector:     m.Sector,
		Industry:   m.Industry,
		Source:     m.Source,
		RawProfile: profile,
	}
}

// Upsert inserts s or overwrites the row with the same (symbol, date).
func (r *snapshotGorm) Upsert(ctx context.Context, s *entity.MarketSnapshot) error {
	m := toModel(s)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(&m).Error
}

func (r *snapshotGorm) FindLatest(ctx context.Context, symbol string) (*entity.MarketSnapshot, error) {
	var m DailyMarketDataModel
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date DESC").
		First(&m).Error
	return r.one(m, err)
}

func (r *snapshotGorm) FindByDate(ctx context.Context, symbol string, date time.Time) (*entity.MarketSnapshot, error) {
	var m DailyMarketDataModel
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND date = ?", symbol, entity.DateOf(date)).
		First(&m).Error
	return r.one(m, err)
}

func (r *snapshotGorm) one(m DailyMarketDataModel, err error) (*entity.MarketSnapshot, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEntity(m), nil
}
