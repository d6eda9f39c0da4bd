package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/alechenninger/vestdates/internal/application"
	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/alechenninger/vestdates/internal/format"
	grantfs "github.com/alechenninger/vestdates/internal/grantsource/fs"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var flagAt int64

func init() {
	rootCmd.AddCommand(grantCmd)
	grantCmd.AddCommand(grantListCmd, grantStatusCmd, grantScheduleCmd)
	grantStatusCmd.Flags().Var(newInstantValue(&flagAt), "at", "instant to report at, as nanoseconds or RFC 3339 (default now)")
}

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Inspect token grants declared in the config file",
}

var grantListCmd = &cobra.Command{
	Use:   "list",
	Short: "List grants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := grantApp()
		if err != nil {
			return err
		}
		grants, err := app.ListGrants(cmd.Context())
		if err != nil {
			return err
		}
		if flagJSON {
			for _, g := range grants {
				slog.Info("grant", "name", g.Name, "recipient", g.Recipient, "token", g.Token, "amount", g.Amount.String(), "start", g.Start, "duration", g.Duration)
			}
			return nil
		}
		return writeGrantList(cmd.OutOrStdout(), app.Formatter, grants)
	},
}

var grantStatusCmd = &cobra.Command{
	Use:   "status NAME",
	Short: "Show vested, releasable and unvested amounts of a grant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := grantApp()
		if err != nil {
			return err
		}
		var at *int64
		if cmd.Flags().Changed("at") {
			at = &flagAt
		}
		st, err := app.GrantStatus(cmd.Context(), args[0], at)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeGrantStatusJSON(cmd.OutOrStdout(), st)
		}
		return writeGrantStatus(cmd.OutOrStdout(), app.Formatter, st)
	},
}

var grantScheduleCmd = &cobra.Command{
	Use:   "schedule NAME",
	Short: "List the dates a grant unlocks and the cumulative amount vested at each",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := grantApp()
		if err != nil {
			return err
		}
		g, unlocks, err := app.GrantSchedule(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeUnlocks(cmd.OutOrStdout(), app.Formatter, g, unlocks)
	},
}

func grantApp() (*application.App, error) {
	if flagConfig == "" {
		return nil, errors.New("grant commands need --config pointing at a file that declares grants")
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	app := application.New(grantfs.NewFromConfig(cfg, flagConfig))
	if cfg.Format != "" {
		app.Formatter = format.New(cfg.Format)
	}
	return app, nil
}

func writeGrantList(w io.Writer, f *format.Formatter, grants []domain.Grant) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRECIPIENT\tTOKEN\tAMOUNT\tSTART\tCLIFF\tEND")
	for _, g := range grants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.Name, ifEmpty(g.Recipient, "-"), ifEmpty(g.Token, "-"), amount(g.Amount),
			f.Format(g.Start), f.Format(g.Cliff), f.Format(g.End()))
	}
	return tw.Flush()
}

func writeGrantStatus(w io.Writer, f *format.Formatter, st *application.GrantStatus) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Grant:\t%s\n", st.Grant.Name)
	fmt.Fprintf(tw, "At:\t%s\n", f.Format(st.At))
	fmt.Fprintf(tw, "Amount:\t%s\n", amount(st.Grant.Amount))
	fmt.Fprintf(tw, "Claimed:\t%s\n", amount(st.Grant.Claimed))
	fmt.Fprintf(tw, "Vested:\t%s\n", amount(st.Vested))
	fmt.Fprintf(tw, "Releasable:\t%s\n", amount(st.Releasable))
	fmt.Fprintf(tw, "Unvested:\t%s\n", amount(st.Unvested))
	if st.NextUnlock != nil {
		next := time.Unix(0, st.NextUnlock.At)
		fmt.Fprintf(tw, "Next unlock:\t%s (%s)\n", f.Format(st.NextUnlock.At),
			humanize.RelTime(next, time.Unix(0, st.At), "earlier", "later"))
	} else {
		fmt.Fprintf(tw, "Next unlock:\tfully vested\n")
	}
	return tw.Flush()
}

type grantStatusJSON struct {
	Name       string `json:"name"`
	At         int64  `json:"at"`
	Amount     string `json:"amount"`
	Claimed    string `json:"claimed"`
	Vested     string `json:"vested"`
	Releasable string `json:"releasable"`
	Unvested   string `json:"unvested"`
	NextUnlock *int64 `json:"nextUnlock,omitempty"`
}

func writeGrantStatusJSON(w io.Writer, st *application.GrantStatus) error {
	out := grantStatusJSON{
		Name:       st.Grant.Name,
		At:         st.At,
		Amount:     st.Grant.Amount.String(),
		Claimed:    st.Grant.Claimed.String(),
		Vested:     st.Vested.String(),
		Releasable: st.Releasable.String(),
		Unvested:   st.Unvested.String(),
	}
	if st.NextUnlock != nil {
		out.NextUnlock = &st.NextUnlock.At
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeUnlocks(w io.Writer, f *format.Formatter, g *domain.Grant, unlocks []domain.Unlock) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tVESTED\tPERCENT")
	for i, u := range unlocks {
		pct := decimal.Zero
		if g.Amount.IsPositive() {
			pct = u.Vested.Mul(decimal.NewFromInt(100)).Div(g.Amount)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s%%\n", i+1, f.Format(u.At), amount(u.Vested), pct.StringFixed(2))
	}
	return tw.Flush()
}

// amount renders whole amounts with thousands separators.
func amount(d decimal.Decimal) string {
	if d.IsInteger() {
		return humanize.BigComma(d.BigInt())
	}
	return d.String()
}

func ifEmpty(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}
