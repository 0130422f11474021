package cache

import (
	"time"
)

// TTLWithinDay は ttl を次の UTC 午前0時までに切り詰めます。
// "latest" キーが日付の切り替わりをまたいで残らないようにするためのものです。
func TTLWithinDay(now time.Time, ttl time.Duration) time.Duration {
	u := now.UTC()
	nextMidnight := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)

	if left := nextMidnight.Sub(u); left < ttl {
		return left
	}
	return ttl
}
