package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Grant is a token allocation that unlocks in monthly tranches after a cliff.
// Amounts are in the token's base units; instants and durations are
// nanoseconds.
type Grant struct {
	Name      string          `json:"name"`
	Owner     string          `json:"owner"`
	Recipient string          `json:"recipient"`
	Token     string          `json:"token"`
	Amount    decimal.Decimal `json:"amount"`
	Claimed   decimal.Decimal `json:"claimed"`
	Start     int64           `json:"start"`
	Duration  int64           `json:"duration"`
	// Cliff is absolute: Start plus the cliff duration.
	Cliff     int64 `json:"cliff"`
	Revocable bool  `json:"revocable"`
	Active    bool  `json:"active"`
}

type GrantParams struct {
	Name          string
	Owner         string
	Recipient     string
	Token         string
	Amount        decimal.Decimal
	Claimed       decimal.Decimal
	Start         int64
	Duration      int64
	CliffDuration int64
	Revocable     bool
}

// Unlock is a point at which more of a grant becomes vested.
type Unlock struct {
	At     int64
	Vested decimal.Decimal
}

// NewGrant validates p against now and returns an active grant.
func NewGrant(p GrantParams, now int64) (*Grant, error) {
	if p.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidGrant)
	}
	if p.CliffDuration < 0 || p.CliffDuration >= p.Duration {
		return nil, fmt.Errorf("%w: cliff %d is not below duration %d", ErrInvalidGrant, p.CliffDuration, p.Duration)
	}
	if p.Amount.IsNegative() || p.Claimed.IsNegative() {
		return nil, fmt.Errorf("%w: amounts must not be negative", ErrInvalidGrant)
	}
	if p.Claimed.GreaterThan(p.Amount) {
		return nil, fmt.Errorf("%w: claimed %s exceeds amount %s", ErrInvalidGrant, p.Claimed, p.Amount)
	}
	end, err := CheckedAdd(p.Start, p.Duration)
	if err != nil {
		return nil, fmt.Errorf("grant %s end: %w", p.Name, err)
	}
	if end <= now {
		return nil, fmt.Errorf("%w: start and duration is in the past", ErrInvalidGrant)
	}
	cliff, err := CheckedAdd(p.Start, p.CliffDuration)
	if err != nil {
		return nil, fmt.Errorf("grant %s cliff: %w", p.Name, err)
	}
	return &Grant{
		Name:      p.Name,
		Owner:     p.Owner,
		Recipient: p.Recipient,
		Token:     p.Token,
		Amount:    p.Amount,
		Claimed:   p.Claimed,
		Start:     p.Start,
		Duration:  p.Duration,
		Cliff:     cliff,
		Revocable: p.Revocable,
		Active:    true,
	}, nil
}

// End is the instant the whole amount is vested.
func (g *Grant) End() int64 { return g.Start + g.Duration }

// PerMonth is the tranche unlocked every AverageMonth. It is zero when the
// grant is shorter than one month, in which case everything unlocks at End.
func (g *Grant) PerMonth() decimal.Decimal {
	months := g.Duration / AverageMonth
	if months == 0 {
		return decimal.Zero
	}
	q, _ := g.Amount.QuoRem(decimal.NewFromInt(months), 0)
	return q
}

// Vested is the cumulative amount unlocked at instant at, claimed or not.
func (g *Grant) Vested(at int64) decimal.Decimal {
	if at < g.Cliff {
		return decimal.Zero
	}
	elapsed := at - g.Start
	if elapsed >= g.Duration {
		return g.Amount
	}
	return g.PerMonth().Mul(decimal.NewFromInt(elapsed / AverageMonth))
}

// Releasable is what the recipient could claim at instant at.
func (g *Grant) Releasable(at int64) decimal.Decimal {
	r := g.Vested(at).Sub(g.Claimed)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Unvested is what is still locked at instant at.
func (g *Grant) Unvested(at int64) decimal.Decimal {
	return g.Amount.Sub(g.Claimed).Sub(g.Releasable(at))
}

// Claim moves everything releasable at instant at into Claimed and returns it.
func (g *Grant) Claim(at int64) (decimal.Decimal, error) {
	if !g.Active {
		return decimal.Zero, fmt.Errorf("claim %s: %w", g.Name, ErrGrantInactive)
	}
	r := g.Releasable(at)
	if !r.IsPositive() {
		return decimal.Zero, fmt.Errorf("claim %s: %w", g.Name, ErrNothingReleasable)
	}
	g.Claimed = g.Claimed.Add(r)
	return r, nil
}

// Revoke ends the grant at instant at. The recipient keeps what is
// releasable; the rest goes back to the owner. The grant is left inactive
// with its schedule zeroed.
func (g *Grant) Revoke(at int64) (toRecipient, toOwner decimal.Decimal, err error) {
	if !g.Revocable {
		return decimal.Zero, decimal.Zero, fmt.Errorf("revoke %s: %w", g.Name, ErrNotRevocable)
	}
	if !g.Active {
		return decimal.Zero, decimal.Zero, fmt.Errorf("revoke %s: %w", g.Name, ErrGrantInactive)
	}
	toRecipient = g.Releasable(at)
	toOwner = g.Amount.Sub(g.Claimed).Sub(toRecipient)

	g.Active = false
	g.Amount = decimal.Zero
	g.Start, g.Duration, g.Cliff = 0, 0, 0
	return toRecipient, toOwner, nil
}

// UnlockSchedule lists every instant at which the vested amount grows, with
// the cumulative vested amount at that instant. The last entry is End.
func (g *Grant) UnlockSchedule() []Unlock {
	if g.Duration <= 0 {
		return nil
	}
	candidates := make([]int64, 0, g.Duration/AverageMonth+2)
	if g.Cliff > g.Start {
		candidates = append(candidates, g.Cliff)
	}
	// k*AverageMonth never exceeds Duration, so Start + k*AverageMonth is
	// bounded by End and cannot wrap even when End is near math.MaxInt64.
	months := g.Duration / AverageMonth
	for k := int64(1); k <= months; k++ {
		t := g.Start + k*AverageMonth
		if t >= g.End() {
			break
		}
		if t > g.Cliff {
			candidates = append(candidates, t)
		}
	}
	candidates = append(candidates, g.End())

	var out []Unlock
	prev := decimal.Zero
	for _, t := range candidates {
		v := g.Vested(t)
		if v.GreaterThan(prev) {
			out = append(out, Unlock{At: t, Vested: v})
			prev = v
		}
	}
	return out
}
