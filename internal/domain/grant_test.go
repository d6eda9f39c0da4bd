package domain_test

import (
	"math"
	"testing"

	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	june1st2021 int64 = 1_622_505_600_000_000_000
	oneDay      int64 = 86_400_000_000_000
	twoYears          = domain.AverageMonth * 24
	sixMonths         = domain.AverageMonth * 6
)

// 500,000 tokens with 24 decimals.
var fiveHundredThousand = decimal.RequireFromString("500000000000000000000000000000")

type grantHarness struct {
	t *testing.T
	g *domain.Grant
}

func constructGrantHarness(t *testing.T) *grantHarness {
	g, err := domain.NewGrant(domain.GrantParams{
		Name:          "team",
		Owner:         "owner.near",
		Recipient:     "alice.near",
		Token:         "paras.near",
		Amount:        fiveHundredThousand,
		Start:         june1st2021,
		Duration:      twoYears,
		CliffDuration: sixMonths,
		Revocable:     true,
	}, june1st2021)
	require.NoError(t, err)
	return &grantHarness{t: t, g: g}
}

func (h *grantHarness) requireVested(at int64, want string) {
	h.t.Helper()
	require.Equal(h.t, want, h.g.Vested(at).String())
}

func TestNewGrant(t *testing.T) {
	h := constructGrantHarness(t)
	require.True(t, h.g.Active)
	require.Equal(t, june1st2021+sixMonths, h.g.Cliff)
	require.Equal(t, june1st2021+twoYears, h.g.End())
	require.True(t, h.g.Claimed.IsZero())

	base := domain.GrantParams{Name: "x", Amount: fiveHundredThousand, Start: june1st2021, Duration: twoYears, CliffDuration: sixMonths}

	t.Run("cliff not below duration", func(t *testing.T) {
		p := base
		p.CliffDuration = p.Duration
		_, err := domain.NewGrant(p, june1st2021)
		require.ErrorIs(t, err, domain.ErrInvalidGrant)
	})
	t.Run("zero duration", func(t *testing.T) {
		p := base
		p.Duration, p.CliffDuration = 0, 0
		_, err := domain.NewGrant(p, june1st2021)
		require.ErrorIs(t, err, domain.ErrInvalidGrant)
	})
	t.Run("already over", func(t *testing.T) {
		_, err := domain.NewGrant(base, june1st2021+twoYears)
		require.ErrorIs(t, err, domain.ErrInvalidGrant)
	})
	t.Run("end overflows", func(t *testing.T) {
		p := base
		p.Start = 1<<63 - 10
		_, err := domain.NewGrant(p, 0)
		require.ErrorIs(t, err, domain.ErrOverflow)
	})
	t.Run("claimed above amount", func(t *testing.T) {
		p := base
		p.Claimed = fiveHundredThousand.Add(decimal.NewFromInt(1))
		_, err := domain.NewGrant(p, june1st2021)
		require.ErrorIs(t, err, domain.ErrInvalidGrant)
	})
}

func TestGrantVested(t *testing.T) {
	h := constructGrantHarness(t)
	g := h.g

	require.Equal(t, "20833333333333333333333333333", g.PerMonth().String())

	h.requireVested(g.Start, "0")
	h.requireVested(g.Cliff-1, "0")
	h.requireVested(g.Cliff, "124999999999999999999999999998")
	h.requireVested(g.Cliff+domain.AverageMonth, "145833333333333333333333333331")
	// Still seven months in: a month is 30.436875 days.
	h.requireVested(g.Cliff+domain.AverageMonth+29*oneDay, "145833333333333333333333333331")
	h.requireVested(g.End()-1, g.PerMonth().Mul(decimal.NewFromInt(23)).String())
	h.requireVested(g.End(), fiveHundredThousand.String())
	h.requireVested(g.End()+twoYears, fiveHundredThousand.String())
}

func TestGrantShorterThanAMonthVestsAtEnd(t *testing.T) {
	g, err := domain.NewGrant(domain.GrantParams{Name: "short", Amount: decimal.NewFromInt(10), Start: 0, Duration: 10 * oneDay}, 0)
	require.NoError(t, err)
	require.True(t, g.PerMonth().IsZero())
	require.True(t, g.Vested(9*oneDay).IsZero())
	require.Equal(t, "10", g.Vested(10*oneDay).String())

	unlocks := g.UnlockSchedule()
	require.Len(t, unlocks, 1)
	require.Equal(t, 10*oneDay, unlocks[0].At)
}

func TestGrantClaim(t *testing.T) {
	h := constructGrantHarness(t)
	g := h.g
	at := g.Cliff + domain.AverageMonth

	_, err := g.Claim(g.Cliff - 1)
	require.ErrorIs(t, err, domain.ErrNothingReleasable)

	claimed, err := g.Claim(at)
	require.NoError(t, err)
	require.Equal(t, "145833333333333333333333333331", claimed.String())
	require.True(t, g.Releasable(at).IsZero())

	_, err = g.Claim(at)
	require.ErrorIs(t, err, domain.ErrNothingReleasable)

	next, err := g.Claim(g.Cliff + 2*domain.AverageMonth)
	require.NoError(t, err)
	require.Equal(t, g.PerMonth().String(), next.String())
	require.Equal(t, g.Amount.String(), g.Claimed.Add(g.Unvested(g.Cliff+2*domain.AverageMonth)).String())
}

func TestGrantRevoke(t *testing.T) {
	t.Run("splits between recipient and owner", func(t *testing.T) {
		h := constructGrantHarness(t)
		g := h.g
		at := g.Cliff + domain.AverageMonth

		toRecipient, toOwner, err := g.Revoke(at)
		require.NoError(t, err)
		require.Equal(t, "145833333333333333333333333331", toRecipient.String())
		require.Equal(t, "354166666666666666666666666669", toOwner.String())
		require.False(t, g.Active)
		require.True(t, g.Amount.IsZero())
		require.Zero(t, g.Start)
		require.Zero(t, g.Duration)
		require.Zero(t, g.Cliff)

		_, _, err = g.Revoke(at)
		require.ErrorIs(t, err, domain.ErrGrantInactive)
		_, err = g.Claim(at)
		require.ErrorIs(t, err, domain.ErrGrantInactive)
	})
	t.Run("after a claim", func(t *testing.T) {
		h := constructGrantHarness(t)
		g := h.g
		at := g.Cliff + domain.AverageMonth
		_, err := g.Claim(at)
		require.NoError(t, err)

		toRecipient, toOwner, err := g.Revoke(at)
		require.NoError(t, err)
		require.True(t, toRecipient.IsZero())
		require.Equal(t, "354166666666666666666666666669", toOwner.String())
	})
	t.Run("not revocable", func(t *testing.T) {
		h := constructGrantHarness(t)
		h.g.Revocable = false
		_, _, err := h.g.Revoke(h.g.Cliff)
		require.ErrorIs(t, err, domain.ErrNotRevocable)
		require.True(t, h.g.Active)
	})
}

func TestGrantUnlockSchedule(t *testing.T) {
	h := constructGrantHarness(t)
	g := h.g

	unlocks := g.UnlockSchedule()
	// The cliff at month six, months seven through twenty-three, then the end.
	require.Len(t, unlocks, 19)
	require.Equal(t, g.Cliff, unlocks[0].At)
	require.Equal(t, "124999999999999999999999999998", unlocks[0].Vested.String())
	require.Equal(t, g.End(), unlocks[len(unlocks)-1].At)
	require.Equal(t, fiveHundredThousand.String(), unlocks[len(unlocks)-1].Vested.String())
	for i := 1; i < len(unlocks); i++ {
		require.Greater(t, unlocks[i].At, unlocks[i-1].At)
		require.True(t, unlocks[i].Vested.GreaterThan(unlocks[i-1].Vested))
	}
}

func TestGrantUnlockScheduleEndingNearMaxInt64(t *testing.T) {
	span := 5 * domain.AverageMonth / 2
	start := int64(math.MaxInt64) - span
	g, err := domain.NewGrant(domain.GrantParams{Name: "edge", Amount: decimal.NewFromInt(9), Start: start, Duration: span}, start)
	require.NoError(t, err)

	unlocks := g.UnlockSchedule()
	require.Len(t, unlocks, 3)
	require.Equal(t, start+domain.AverageMonth, unlocks[0].At)
	require.Equal(t, "4", unlocks[0].Vested.String())
	require.Equal(t, start+2*domain.AverageMonth, unlocks[1].At)
	require.Equal(t, "8", unlocks[1].Vested.String())
	require.Equal(t, int64(math.MaxInt64), unlocks[2].At)
	require.Equal(t, "9", unlocks[2].Vested.String())
}
