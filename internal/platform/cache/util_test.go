package cache

import (
	"testing"
	"time"
)

func TestTTLWithinDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		now      time.Time
		ttl      time.Duration
		expected time.Duration
	}{
		{"midday keeps ttl", time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), 5 * time.Minute, 5 * time.Minute},
		{"close to midnight is capped", time.Date(2024, 1, 2, 23, 58, 0, 0, time.UTC), 5 * time.Minute, 2 * time.Minute},
		{"non-UTC input uses UTC day", time.Date(2024, 1, 3, 8, 58, 0, 0, time.FixedZone("JST", 9*3600)), 5 * time.Minute, 2 * time.Minute},
		{"exactly midnight gives full day cap", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 48 * time.Hour, 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := TTLWithinDay(tt.now, tt.ttl); got != tt.expected {
				t.Errorf("TTLWithinDay(%v, %v) = %v, expected %v", tt.now, tt.ttl, got, tt.expected)
			}
		})
	}
}
