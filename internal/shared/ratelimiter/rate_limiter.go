// Package ratelimiter caps how many upstream calls happen per interval.
package ratelimiter

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"market_sync/internal/shared/waiter"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiterは、API呼び出しなどの操作の頻度を制限します。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time

	wait waiter.Waiter
	now  func() time.Time
	log  *zap.SugaredLogger
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithWaiter replaces the waiter used when the limit is hit.
func WithWaiter(w waiter.Waiter) Option {
	return func(rl *RateLimiter) { rl.wait = w }
}

// WithClock replaces the clock.
func WithClock(now func() time.Time) Option {
	return func(rl *RateLimiter) { rl.now = now }
}

// WithLogger sets the logger for throttling events.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(rl *RateLimiter) { rl.log = log }
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		limit:    limit,
		interval: interval,
		wait:     waiter.Sleep,
		now:      time.Now,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.lastReset = rl.now()
	return rl
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		sleep := rl.interval - now.Sub(rl.lastReset)
		if sleep > 0 {
			rl.log.Infow("rate limit reached", "limit", rl.limit, "sleep", sleep)
			rl.wait.Wait(sleep)
		}
		// リセット
		rl.count = 1
		rl.lastReset = rl.now()
	}
}
