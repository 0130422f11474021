// Package metrics records batch outcomes with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"market_sync/internal/feature/marketdata/usecase"
)

var _ usecase.Metrics = (*Recorder)(nil)

// Recorder implements usecase.Metrics using Prometheus.
type Recorder struct {
	attempts    *prometheus.CounterVec
	symbols     *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		attempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_sync_provider_attempts_total",
				Help: "Upstream quote attempts by outcome",
			},
			[]string{"outcome"},
		),
		symbols: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "market_sync_symbols_total",
				Help: "Symbols processed by batch outcome",
			},
			[]string{"outcome"},
		),
		runDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "market_sync_run_duration_seconds",
				Help:    "Duration of a full batch run in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
	}
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordAttempt counts one provider call.
func (r *Recorder) RecordAttempt(ok bool) {
	r.attempts.WithLabelValues(outcome(ok)).Inc()
}

// RecordSymbol counts one finished symbol.
func (r *Recorder) RecordSymbol(ok bool) {
	r.symbols.WithLabelValues(outcome(ok)).Inc()
}

// ObserveRun records the duration of a batch.
func (r *Recorder) ObserveRun(d time.Duration) {
	r.runDuration.Observe(d.Seconds())
}
