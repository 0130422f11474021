// Package usecase implements the market snapshot sync pipeline: acquiring
// quotes with bounded retry and reconciling a batch of symbols into the store.
package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"market_sync/internal/feature/marketdata/domain"
	"market_sync/internal/feature/marketdata/domain/entity"
	"market_sync/internal/shared/waiter"
)

const (
	// DefaultMaxAttempts is the provider call budget per symbol.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is multiplied by the attempt number to get the backoff wait.
	DefaultBaseDelay = 500 * time.Millisecond
)

var errEmptyQuote = errors.New("provider returned an empty quote summary")

// QuoteProvider は外部の金融データAPIを抽象化するインターフェースです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type QuoteProvider interface {
	// QuoteSummary fetches the price, summary-detail, key-statistics and
	// asset-profile modules for symbol.
	QuoteSummary(ctx context.Context, symbol string) (*entity.QuoteSummary, error)
	// Source identifies the provider in stored snapshots.
	Source() string
}

// Acquirer fetches one symbol's quote with linear backoff and normalizes it into a snapshot.
type Acquirer struct {
	provider    QuoteProvider
	wait        waiter.Waiter
	now         func() time.Time
	log         *zap.SugaredLogger
	metrics     Metrics
	maxAttempts int
	baseDelay   time.Duration
	limiter     RateLimiter
}

// RateLimiter throttles provider calls.
type RateLimiter interface {
	WaitIfNeeded()
}

// AcquirerOption configures an Acquirer.
type AcquirerOption func(*Acquirer)

// WithRetryPolicy overrides the attempt budget and base backoff delay.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) AcquirerOption {
	return func(a *Acquirer) {
		a.maxAttempts = maxAttempts
		a.baseDelay = baseDelay
	}
}

// WithAcquirerWaiter replaces the backoff waiter.
func WithAcquirerWaiter(w waiter.Waiter) AcquirerOption {
	return func(a *Acquirer) { a.wait = w }
}

// WithAcquirerClock replaces the clock used to date snapshots.
func WithAcquirerClock(now func() time.Time) AcquirerOption {
	return func(a *Acquirer) { a.now = now }
}

// WithAcquirerLogger sets the logger for failed attempts.
func WithAcquirerLogger(log *zap.SugaredLogger) AcquirerOption {
	return func(a *Acquirer) { a.log = log }
}

// WithAcquirerMetrics sets the metrics sink for attempt outcomes.
func WithAcquirerMetrics(m Metrics) AcquirerOption {
	return func(a *Acquirer) { a.metrics = m }
}

// WithRateLimiter throttles every provider call, retries included.
func WithRateLimiter(l RateLimiter) AcquirerOption {
	return func(a *Acquirer) { a.limiter = l }
}

// NewAcquirer は新しい Acquirer を作成します。
func NewAcquirer(provider QuoteProvider, opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		provider:    provider,
		wait:        waiter.Sleep,
		now:         time.Now,
		log:         zap.NewNop().Sugar(),
		metrics:     nopMetrics{},
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire fetches symbol with the configured attempt budget.
func (a *Acquirer) Acquire(ctx context.Context, symbol string) (*entity.MarketSnapshot, error) {
	return a.AcquireWithAttempts(ctx, symbol, a.maxAttempts)
}

// AcquireWithAttempts calls the provider up to maxAttempts times. After failed
// attempt n it waits baseDelay*n before retrying; the final failure is returned
// as a *domain.AcquisitionError without waiting.
func (a *Acquirer) AcquireWithAttempts(ctx context.Context, symbol string, maxAttempts int) (*entity.MarketSnapshot, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if a.limiter != nil {
			a.limiter.WaitIfNeeded()
		}
		q, err := a.provider.QuoteSummary(ctx, symbol)
		if err == nil && q == nil {
			err = errEmptyQuote
		}
		if err == nil {
			a.metrics.RecordAttempt(true)
			return normalize(symbol, a.provider.Source(), q, a.now()), nil
		}

		a.metrics.RecordAttempt(false)
		lastErr = err
		a.log.Warnw("quote acquisition attempt failed",
			"symbol", symbol,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", &domain.TransientAcquisitionError{Symbol: symbol, Attempt: attempt, Err: err},
		)

		if attempt == maxAttempts {
			break
		}
		a.wait.Wait(a.baseDelay * time.Duration(attempt))
	}

	return nil, &domain.AcquisitionError{Symbol: symbol, Attempts: maxAttempts, Err: lastErr}
}
