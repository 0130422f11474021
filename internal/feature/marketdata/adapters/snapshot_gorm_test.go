package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&DailyMarketDataModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func num(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func strPtr(s string) *string { return &s }

var baseDate = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func snapshot(symbol string, date time.Time, price float64) *entity.MarketSnapshot {
	return &entity.MarketSnapshot{
		Symbol:     symbol,
		Date:       date,
		Price:      num(price),
		MarketCap:  num(2_000_000_000),
		VolumeAvg:  num(50_000_000),
		PERatio:    num(25.5),
		EPS:        num(6),
		Sector:     strPtr("Technology"),
		Industry:   strPtr("Consumer Electronics"),
		Source:     "yahoo-finance",
		RawProfile: map[string]any{"sector": "Technology", "country": "United States"},
	}
}

func TestNewSnapshotRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewSnapshotRepository(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestSnapshotGorm_Upsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		snapshots    []*entity.MarketSnapshot
		validateFunc func(t *testing.T, db *gorm.DB)
	}{
		{
			name:      "success: insert single snapshot",
			snapshots: []*entity.MarketSnapshot{snapshot("AAPL", baseDate, 150)},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&DailyMarketDataModel{}).Count(&count)
				assert.Equal(t, int64(1), count, "row count does not match")
			},
		},
		{
			name: "success: same pair twice keeps one row with the second values",
			snapshots: []*entity.MarketSnapshot{
				snapshot("AAPL", baseDate, 150),
				snapshot("AAPL", baseDate, 155.25),
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&DailyMarketDataModel{}).Count(&count)
				assert.Equal(t, int64(1), count, "row count should remain 1 after upsert")

				var m DailyMarketDataModel
				require.NoError(t, db.First(&m).Error)
				assert.True(t, m.Price.Decimal.Equal(decimal.NewFromFloat(155.25)), "price should be updated, got %s", m.Price.Decimal)
			},
		},
		{
			name: "success: time of day is ignored for the conflict key",
			snapshots: []*entity.MarketSnapshot{
				snapshot("AAPL", baseDate.Add(3*time.Hour), 150),
				snapshot("AAPL", baseDate.Add(20*time.Hour), 151),
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&DailyMarketDataModel{}).Count(&count)
				assert.Equal(t, int64(1), count)
			},
		},
		{
			name: "success: different dates and symbols are separate rows",
			snapshots: []*entity.MarketSnapshot{
				snapshot("AAPL", baseDate, 150),
				snapshot("AAPL", baseDate.AddDate(0, 0, 1), 151),
				snapshot("MSFT", baseDate, 400),
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var count int64
				db.Model(&DailyMarketDataModel{}).Count(&count)
				assert.Equal(t, int64(3), count)
			},
		},
		{
			name: "success: null fields overwrite previous values",
			snapshots: []*entity.MarketSnapshot{
				snapshot("AAPL", baseDate, 150),
				{Symbol: "AAPL", Date: baseDate, Source: "yahoo-finance"},
			},
			validateFunc: func(t *testing.T, db *gorm.DB) {
				var m DailyMarketDataModel
				require.NoError(t, db.First(&m).Error)
				assert.False(t, m.Price.Valid, "price should be null")
				assert.False(t, m.PERatio.Valid, "pe_ratio should be null")
				assert.Nil(t, m.Sector)
				assert.Empty(t, m.RawProfile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewSnapshotRepository(db)

			for _, s := range tt.snapshots {
				require.NoError(t, repo.Upsert(context.Background(), s))
			}
			tt.validateFunc(t, db)
		})
	}
}

func TestSnapshotGorm_FindLatest(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, snapshot("AAPL", baseDate, 150)))
	require.NoError(t, repo.Upsert(ctx, snapshot("AAPL", baseDate.AddDate(0, 0, 2), 152)))
	require.NoError(t, repo.Upsert(ctx, snapshot("AAPL", baseDate.AddDate(0, 0, 1), 151)))
	require.NoError(t, repo.Upsert(ctx, snapshot("MSFT", baseDate.AddDate(0, 0, 5), 400)))

	got, err := repo.FindLatest(ctx, "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, baseDate.AddDate(0, 0, 2), got.Date)
	assert.True(t, got.Price.Decimal.Equal(decimal.NewFromInt(152)))
}

func TestSnapshotGorm_FindByDate_EntityMapping(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, snapshot("AAPL", baseDate, 150.5)))

	got, err := repo.FindByDate(ctx, "AAPL", baseDate.Add(10*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", got.Symbol, "Symbol does not match")
	assert.Equal(t, baseDate, got.Date, "Date does not match")
	assert.True(t, got.Price.Decimal.Equal(decimal.NewFromFloat(150.5)), "Price does not match")
	assert.True(t, got.MarketCap.Decimal.Equal(decimal.NewFromInt(2_000_000_000)), "MarketCap does not match")
	assert.True(t, got.VolumeAvg.Decimal.Equal(decimal.NewFromInt(50_000_000)), "VolumeAvg does not match")
	assert.True(t, got.PERatio.Decimal.Equal(decimal.NewFromFloat(25.5)), "PERatio does not match")
	assert.True(t, got.EPS.Decimal.Equal(decimal.NewFromInt(6)), "EPS does not match")
	require.NotNil(t, got.Sector)
	assert.Equal(t, "Technology", *got.Sector)
	assert.Equal(t, "yahoo-finance", got.Source)
	assert.Equal(t, "United States", got.RawProfile["country"])
}

func TestSnapshotGorm_NotFound(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSnapshotRepository(db)
	ctx := context.Background()

	_, err := repo.FindLatest(ctx, "NOPE")
	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))

	require.NoError(t, repo.Upsert(ctx, snapshot("AAPL", baseDate, 150)))
	_, err = repo.FindByDate(ctx, "AAPL", baseDate.AddDate(0, 0, 1))
	assert.True(t, errors.Is(err, domain.ErrSnapshotNotFound))
}
