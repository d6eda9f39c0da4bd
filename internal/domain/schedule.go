package domain

import (
	"fmt"
	"math"
)

const (
	// NanosPerSecond converts between the nanosecond instants used
	// throughout and the whole seconds that get rendered.
	NanosPerSecond int64 = 1_000_000_000

	// October1st2021 is 2021-10-01T00:00:00Z in nanoseconds since the Unix epoch.
	October1st2021 int64 = 1_633_046_400_000_000_000

	// ThirtyDays is the fixed "one month" step between vesting dates. It is
	// not a calendar month.
	ThirtyDays int64 = 30 * 24 * 60 * 60 * NanosPerSecond

	// AverageMonth is 30.436875 days, the month unit grants vest in.
	AverageMonth int64 = 2_629_746_000_000_000

	// DefaultCount is how many vesting dates a schedule produces by default.
	DefaultCount = 20
)

// Schedule is an anchor instant plus Count fixed-size steps. All instants
// are nanoseconds since the Unix epoch.
type Schedule struct {
	Anchor int64 `json:"anchor" yaml:"anchor"`
	Step   int64 `json:"step" yaml:"step"`
	Count  int   `json:"count" yaml:"count"`
}

// DefaultSchedule returns twenty 30-day steps from October 1st 2021.
func DefaultSchedule() Schedule {
	return Schedule{Anchor: October1st2021, Step: ThirtyDays, Count: DefaultCount}
}

// Instant returns Anchor + i*Step.
func (s Schedule) Instant(i int) int64 {
	return s.Anchor + int64(i)*s.Step
}

// Instants returns every instant of the schedule in ascending order.
func (s Schedule) Instants() []int64 {
	if s.Count <= 0 {
		return nil
	}
	out := make([]int64, 0, s.Count)
	for i := 0; i < s.Count; i++ {
		out = append(out, s.Instant(i))
	}
	return out
}

// Last returns the final instant of the schedule. It is only meaningful
// when Count > 0.
func (s Schedule) Last() int64 {
	return s.Instant(s.Count - 1)
}

// Validate checks schedules that come from configuration or flags. The
// built-in default always passes.
func (s Schedule) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalidSchedule, s.Count)
	}
	if s.Step <= 0 {
		return fmt.Errorf("%w: step %d must be positive", ErrInvalidSchedule, s.Step)
	}
	if s.Count == 0 {
		return nil
	}
	span, err := CheckedMul(int64(s.Count-1), s.Step)
	if err != nil {
		return fmt.Errorf("%w: %d steps of %dns", err, s.Count-1, s.Step)
	}
	if _, err := CheckedAdd(s.Anchor, span); err != nil {
		return fmt.Errorf("%w: anchor %d plus %dns", err, s.Anchor, span)
	}
	return nil
}

// UnixSeconds converts nanoseconds to whole seconds, flooring toward
// negative infinity so pre-epoch instants land on the earlier second.
func UnixSeconds(ns int64) int64 {
	sec := ns / NanosPerSecond
	if ns%NanosPerSecond < 0 {
		sec--
	}
	return sec
}

// CheckedAdd returns a+b or ErrOverflow.
func CheckedAdd(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// CheckedMul returns a*b or ErrOverflow.
func CheckedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return c, nil
}
