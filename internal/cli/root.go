package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alechenninger/vestdates/internal/application"
	"github.com/alechenninger/vestdates/internal/config"
	"github.com/alechenninger/vestdates/internal/domain"
	"github.com/alechenninger/vestdates/internal/format"
	outfs "github.com/alechenninger/vestdates/internal/output/fs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "vestdates",
		Short: "Print vesting dates spaced 30 days apart from October 1st 2021",
		Long: `Print vesting dates in UTC, one per line, as MM-DD-YYYY HH:MM:SS.

With no flags the schedule is twenty 30-day steps from 2021-10-01T00:00:00Z.
A config file or flags may move the anchor, change the step or count, and
declare token grants for the grant subcommands.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			sched, err := resolveSchedule(cmd, cfg)
			if err != nil {
				return err
			}
			app := application.NewDefault(flagConfig)
			app.Formatter = format.New(resolveLayout(cmd, cfg))
			return app.EmitVestingDates(ctx, outputSink(cmd.OutOrStdout()), sched)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flagJSON    bool
	flagVerbose bool
	flagConfig  string

	flagAnchor int64 = domain.October1st2021
	flagStep   int64 = domain.ThirtyDays
	flagCount  int   = domain.DefaultCount
	flagFormat string
	flagOutput string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "enable JSON log output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML or JSONC config file (optional)")

	rootCmd.Flags().Var(newInstantValue(&flagAnchor), "anchor", "first vesting instant, as nanoseconds since the epoch or RFC 3339")
	rootCmd.Flags().Var(newDurationValue(&flagStep), "step", "time between vesting dates, as nanoseconds, a Go duration, Nd or Nmo")
	rootCmd.Flags().IntVar(&flagCount, "count", domain.DefaultCount, "number of vesting dates")
	rootCmd.Flags().StringVar(&flagFormat, "format", format.DefaultLayout, "strftime layout for each date")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write dates to this file instead of stdout")
}

func Execute(version string) {
	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx context.Context) error {
	var handler slog.Handler
	if flagJSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: chooseLevel(flagVerbose)})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: chooseLevel(flagVerbose)})
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("logging initialized")
	return nil
}

func chooseLevel(verbose bool) slog.Leveler {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadConfig returns an empty config when no --config was given.
func loadConfig() (*config.Config, error) {
	if flagConfig == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Load(afero.NewOsFs(), flagConfig)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", flagConfig, "grants", len(cfg.Grants))
	return cfg, nil
}

// resolveSchedule layers the built-in default, then the config file, then
// any flags set explicitly on the command line.
func resolveSchedule(cmd *cobra.Command, cfg *config.Config) (domain.Schedule, error) {
	sched, err := cfg.Schedule(domain.DefaultSchedule())
	if err != nil {
		return sched, err
	}
	flags := cmd.Flags()
	if flags.Changed("anchor") {
		sched.Anchor = flagAnchor
	}
	if flags.Changed("step") {
		sched.Step = flagStep
	}
	if flags.Changed("count") {
		sched.Count = flagCount
	}
	return sched, sched.Validate()
}

func resolveLayout(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("format") || cfg.Format == "" {
		return flagFormat
	}
	return cfg.Format
}

func outputSink(stdout io.Writer) domain.OutputSink {
	if flagOutput == "" {
		return writerSink{stdout}
	}
	return outfs.New(flagOutput)
}

// writerSink sends output to a writer the caller owns, such as stdout.
type writerSink struct{ w io.Writer }

func (s writerSink) Open(ctx context.Context) (io.WriteCloser, error) {
	return nopCloser{s.w}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
