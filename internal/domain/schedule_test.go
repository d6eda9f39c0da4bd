package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchedule(t *testing.T) {
	s := domain.DefaultSchedule()
	require.Equal(t, int64(1_633_046_400_000_000_000), s.Anchor)
	require.Equal(t, int64(2_592_000_000_000_000), s.Step)
	require.Equal(t, 20, s.Count)
	require.NoError(t, s.Validate())

	instants := s.Instants()
	require.Len(t, instants, 20)
	for i, ns := range instants {
		require.Equal(t, s.Anchor+int64(i)*s.Step, ns)
		if i > 0 {
			require.Greater(t, ns, instants[i-1])
		}
	}
	require.Equal(t, int64(2_592_000), domain.UnixSeconds(instants[1])-domain.UnixSeconds(instants[0]))
	require.Equal(t, int64(1_682_294_400_000_000_000), s.Last())
}

func TestScheduleValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		s    domain.Schedule
		err  error
	}{
		{"empty", domain.Schedule{Step: 1}, nil},
		{"negative count", domain.Schedule{Step: 1, Count: -1}, domain.ErrInvalidSchedule},
		{"zero step", domain.Schedule{Count: 3}, domain.ErrInvalidSchedule},
		{"overflowing span", domain.Schedule{Step: math.MaxInt64 / 2, Count: 4}, domain.ErrOverflow},
		{"overflowing anchor", domain.Schedule{Anchor: math.MaxInt64 - 5, Step: 10, Count: 2}, domain.ErrOverflow},
		{"pre-epoch anchor", domain.Schedule{Anchor: -domain.ThirtyDays, Step: domain.ThirtyDays, Count: 3}, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tc.err), "got %v", err)
		})
	}
}

func TestUnixSecondsFloors(t *testing.T) {
	require.Equal(t, int64(1), domain.UnixSeconds(1_999_999_999))
	require.Equal(t, int64(0), domain.UnixSeconds(0))
	require.Equal(t, int64(-1), domain.UnixSeconds(-1))
	require.Equal(t, int64(-1), domain.UnixSeconds(-1_000_000_000))
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := domain.CheckedAdd(math.MaxInt64, 1)
	require.ErrorIs(t, err, domain.ErrOverflow)
	_, err = domain.CheckedAdd(math.MinInt64, -1)
	require.ErrorIs(t, err, domain.ErrOverflow)
	v, err := domain.CheckedAdd(-5, 7)
	require.NoError(t, err)
	require.Equal(t, int64(2), v)

	_, err = domain.CheckedMul(math.MaxInt64/2+1, 2)
	require.ErrorIs(t, err, domain.ErrOverflow)
	_, err = domain.CheckedMul(-1, math.MinInt64)
	require.ErrorIs(t, err, domain.ErrOverflow)
	v, err = domain.CheckedMul(19, domain.ThirtyDays)
	require.NoError(t, err)
	require.Equal(t, int64(49_248_000_000_000_000), v)
}
