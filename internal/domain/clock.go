package domain

import "time"

// Clock provides current time; useful for deterministic tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NowNanos returns the clock's current instant as nanoseconds since the Unix epoch.
func NowNanos(c Clock) int64 { return c.Now().UnixNano() }
