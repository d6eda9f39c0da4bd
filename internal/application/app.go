package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/alechenninger/vestdates/internal/format"
	grantfs "github.com/alechenninger/vestdates/internal/grantsource/fs"
	grantmem "github.com/alechenninger/vestdates/internal/grantsource/mem"
	"github.com/shopspring/decimal"
)

type App struct {
	Grants    domain.GrantSource
	Clock     domain.Clock
	Formatter *format.Formatter
}

func New(grants domain.GrantSource) *App {
	return &App{Grants: grants, Clock: domain.RealClock{}, Formatter: format.New(format.DefaultLayout)}
}

// NewDefault builds an App whose grants come from configPath. With no
// config file there are no grants.
func NewDefault(configPath string) *App {
	if configPath == "" {
		return New(grantmem.New())
	}
	return New(grantfs.New(configPath))
}

// VestingDates renders every instant of s, earliest first.
func (a *App) VestingDates(ctx context.Context, s domain.Schedule) ([]string, error) {
	instants := s.Instants()
	out := make([]string, 0, len(instants))
	for _, ns := range instants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, a.Formatter.Format(ns))
	}
	return out, nil
}

// WriteVestingDates writes one rendered date per line to w.
func (a *App) WriteVestingDates(ctx context.Context, w io.Writer, s domain.Schedule) error {
	slog.Debug("generating vesting dates", "anchor", s.Anchor, "step", s.Step, "count", s.Count, "layout", a.Formatter.Layout())
	bw := bufio.NewWriter(w)
	for i := 0; i < s.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(bw, a.Formatter.Format(s.Instant(i))); err != nil {
			return fmt.Errorf("write vesting date %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// EmitVestingDates writes the schedule to a writer opened from sink.
func (a *App) EmitVestingDates(ctx context.Context, sink domain.OutputSink, s domain.Schedule) (err error) {
	w, err := sink.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return a.WriteVestingDates(ctx, w, s)
}

// GrantStatus is a grant's balances at one instant.
type GrantStatus struct {
	Grant      domain.Grant
	At         int64
	Vested     decimal.Decimal
	Releasable decimal.Decimal
	Unvested   decimal.Decimal
	// NextUnlock is nil once everything has vested.
	NextUnlock *domain.Unlock
}

// GrantStatus reports the named grant at instant at, or at the clock's
// current time when at is nil.
func (a *App) GrantStatus(ctx context.Context, name string, at *int64) (*GrantStatus, error) {
	g, err := a.Grants.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	when := domain.NowNanos(a.Clock)
	if at != nil {
		when = *at
	}
	st := &GrantStatus{
		Grant:      *g,
		At:         when,
		Vested:     g.Vested(when),
		Releasable: g.Releasable(when),
		Unvested:   g.Unvested(when),
	}
	for _, u := range g.UnlockSchedule() {
		if u.At > when {
			u := u
			st.NextUnlock = &u
			break
		}
	}
	slog.Debug("grant status", "grant", name, "at", when, "vested", st.Vested.String(), "releasable", st.Releasable.String())
	return st, nil
}

// GrantSchedule returns the named grant and its unlock dates.
func (a *App) GrantSchedule(ctx context.Context, name string) (*domain.Grant, []domain.Unlock, error) {
	g, err := a.Grants.Load(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return g, g.UnlockSchedule(), nil
}

func (a *App) ListGrants(ctx context.Context) ([]domain.Grant, error) {
	return a.Grants.List(ctx)
}
