// Package waiter provides the timed suspensions used between retries and
// between symbols, behind an interface so tests can skip real sleeping.
package waiter

import (
	"sync"
	"time"
)

// Waiter は指定された時間だけ呼び出し元を停止させるインターフェースです。
type Waiter interface {
	Wait(d time.Duration)
}

// Func adapts a plain function to the Waiter interface.
type Func func(d time.Duration)

// Wait calls f(d).
func (f Func) Wait(d time.Duration) { f(d) }

// Sleep is the production Waiter backed by time.Sleep.
var Sleep Waiter = Func(func(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
})

// Recorder は待機を行わず、要求された待機時間を順番に記録します。
type Recorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

// Wait records d and returns immediately.
func (r *Recorder) Wait(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waits = append(r.waits, d)
}

// Waits returns a copy of the recorded durations in call order.
func (r *Recorder) Waits() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.waits))
	copy(out, r.waits)
	return out
}
