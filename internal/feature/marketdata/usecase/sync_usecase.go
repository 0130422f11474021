package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/shared/waiter"
)

// DefaultPaceDelay is the fixed wait between consecutive symbols.
const DefaultPaceDelay = 500 * time.Millisecond

// SnapshotRepository はスナップショットの永続化レイヤーを抽象化します。
type SnapshotRepository interface {
	// Upsert inserts s, or overwrites the stored row with the same (symbol, date).
	Upsert(ctx context.Context, s *entity.MarketSnapshot) error
}

// SnapshotAcquirer obtains a normalized snapshot for one symbol.
type SnapshotAcquirer interface {
	Acquire(ctx context.Context, symbol string) (*entity.MarketSnapshot, error)
}

// Preconditions validates settings that must hold before a batch starts.
type Preconditions interface {
	Validate() error
}

// SyncUsecase runs the configured symbol list through the acquirer and the
// store, one symbol at a time.
type SyncUsecase struct {
	acquirer  SnapshotAcquirer
	store     SnapshotRepository
	pre       Preconditions
	symbols   []string
	paceDelay time.Duration
	wait      waiter.Waiter
	now       func() time.Time
	log       *zap.SugaredLogger
	metrics   Metrics
}

// SyncOption configures a SyncUsecase.
type SyncOption func(*SyncUsecase)

// WithPaceDelay overrides the inter-symbol delay.
func WithPaceDelay(d time.Duration) SyncOption {
	return func(u *SyncUsecase) { u.paceDelay = d }
}

// WithSyncWaiter replaces the pacing waiter.
func WithSyncWaiter(w waiter.Waiter) SyncOption {
	return func(u *SyncUsecase) { u.wait = w }
}

// WithSyncClock replaces the clock used for the completion timestamp.
func WithSyncClock(now func() time.Time) SyncOption {
	return func(u *SyncUsecase) { u.now = now }
}

// WithSyncLogger sets the logger.
func WithSyncLogger(log *zap.SugaredLogger) SyncOption {
	return func(u *SyncUsecase) { u.log = log }
}

// WithSyncMetrics sets the metrics sink.
func WithSyncMetrics(m Metrics) SyncOption {
	return func(u *SyncUsecase) { u.metrics = m }
}

// NewSyncUsecase は新しい SyncUsecase を作成します。symbols はコピーされます。
func NewSyncUsecase(acquirer SnapshotAcquirer, store SnapshotRepository, pre Preconditions, symbols []string, opts ...SyncOption) *SyncUsecase {
	u := &SyncUsecase{
		acquirer:  acquirer,
		store:     store,
		pre:       pre,
		symbols:   append([]string(nil), symbols...),
		paceDelay: DefaultPaceDelay,
		wait:      waiter.Sleep,
		now:       time.Now,
		log:       zap.NewNop().Sugar(),
		metrics:   nopMetrics{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Symbols returns a copy of the configured symbol list.
func (u *SyncUsecase) Symbols() []string {
	return append([]string(nil), u.symbols...)
}

// Run syncs the configured symbols.
func (u *SyncUsecase) Run(ctx context.Context) (*entity.BatchResult, error) {
	return u.RunSymbols(ctx, u.symbols)
}

// RunSymbols syncs symbols in order. Per-symbol failures are recorded in the
// result and never returned; the only error is a failed precondition, which
// is reported before any provider or store call.
func (u *SyncUsecase) RunSymbols(ctx context.Context, symbols []string) (*entity.BatchResult, error) {
	result := entity.NewBatchResult()
	start := u.now()

	if err := u.checkPreconditions(); err != nil {
		u.log.Errorw("sync aborted before processing", "error", err)
		return result, err
	}

	for i, symbol := range symbols {
		result.Processed++

		snap, err := u.syncOne(ctx, symbol)
		if err != nil {
			// 1つの銘柄でエラーが発生しても処理を止めずに記録し、次の銘柄へ進む
			u.log.Errorw("symbol sync failed", "symbol", symbol, "error", err)
			u.metrics.RecordSymbol(false)
			result.AddFailure(symbol, err)
		} else {
			u.log.Infow("symbol synced", "symbol", symbol, "date", snap.Date.Format(time.DateOnly))
			u.metrics.RecordSymbol(true)
			result.AddSuccess(snap)
		}

		if i < len(symbols)-1 {
			u.wait.Wait(u.paceDelay)
		}
	}

	result.Timestamp = u.now()
	u.metrics.ObserveRun(result.Timestamp.Sub(start))
	u.log.Infow("sync finished",
		"processed", result.Processed,
		"successes", len(result.Successes),
		"failures", len(result.Failures),
	)
	return result, nil
}

func (u *SyncUsecase) checkPreconditions() error {
	if u.pre != nil {
		if err := u.pre.Validate(); err != nil {
			return err
		}
	}
	if u.store == nil {
		return &domain.ConfigurationError{Missing: []string{"snapshot store"}}
	}
	return nil
}

// syncOne acquires symbol and upserts the snapshot. Retries happen inside the
// acquirer only.
func (u *SyncUsecase) syncOne(ctx context.Context, symbol string) (*entity.MarketSnapshot, error) {
	snap, err := u.acquirer.Acquire(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := u.store.Upsert(ctx, snap); err != nil {
		return nil, &domain.PersistenceError{Symbol: symbol, Err: err}
	}
	return snap, nil
}
