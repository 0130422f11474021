package usecase

import "time"

// Metrics receives sync pipeline measurements.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type Metrics interface {
	RecordAttempt(success bool)
	RecordSymbol(success bool)
	ObserveRun(d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordAttempt(bool) {}
func (nopMetrics) RecordSymbol(bool) {}
func (nopMetrics) ObserveRun(time.Duration) {}
