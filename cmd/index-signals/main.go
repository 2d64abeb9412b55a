package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"index-signals/internal/app"
	"index-signals/internal/dataset"
	"index-signals/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	provider  string
	symbols   string
	start     string
	fast      int
	slow      int
	output    string
	format    string
	logLevel  string
	reportDir string
	workers   int
	barsDir   string
	quiet     bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "index-signals",
		Short:         "Build an EMA crossover alert dataset for market indices",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(cmd, &f)
			if err != nil {
				slog.Error("run failed", "error", err)
			}
			return err
		},
	}
	bindFlags(cmd, &f)
	return cmd
}

func bindFlags(cmd *cobra.Command, f *flags) {
	fl := cmd.Flags()
	fl.StringVar(&f.provider, "provider", "", "data provider: yahoo | polygon (env DATA_PROVIDER)")
	fl.StringVar(&f.symbols, "symbols", "", "symbols file .yaml/.json/.txt (env SYMBOLS_FILE)")
	fl.StringVar(&f.start, "start", "", "history start date YYYY-MM-DD (env START_DATE)")
	fl.IntVar(&f.fast, "fast", 0, "fast EMA span (env FAST_SPAN)")
	fl.IntVar(&f.slow, "slow", 0, "slow EMA span (env SLOW_SPAN)")
	fl.StringVarP(&f.output, "output", "o", "", "output path, - for stdout (env OUTPUT)")
	fl.StringVar(&f.format, "format", "", "csv | json | parquet (env SAVE_FORMAT)")
	fl.StringVar(&f.logLevel, "log-level", "", "debug | info | warn | error (env LOG_LEVEL)")
	fl.StringVar(&f.reportDir, "report-dir", "", "directory for the run report (env REPORT_DIR)")
	fl.IntVar(&f.workers, "workers", 0, "max symbols fetched concurrently, 0 = all (env WORKERS)")
	fl.StringVar(&f.barsDir, "bars-dir", "", "read <ticker>.csv bars from this directory instead of a provider (env BARS_DIR)")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "do not print the summary table")
}

func run(cmd *cobra.Command, f *flags) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	slog.SetDefault(slogx.NewDefault(cfg.LogLevel))

	a, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := a.Run(ctx)
	if err != nil {
		return err
	}
	if !f.quiet {
		dataset.RenderSummary(os.Stderr, report)
	}
	return nil
}

// loadConfig reads env config, applies flag overrides and validates the result.
func loadConfig(cmd *cobra.Command, f *flags) (*app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, f, cfg)
	cfg.Normalize()
	if err := cfg.ResolveSymbols(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides env config with flags the user actually set.
func applyFlags(cmd *cobra.Command, f *flags, cfg *app.Config) {
	changed := cmd.Flags().Changed
	if changed("provider") {
		cfg.DataProvider = f.provider
	}
	if changed("symbols") {
		cfg.SymbolsFile = f.symbols
	}
	if changed("start") {
		cfg.StartDate = f.start
	}
	if changed("fast") {
		cfg.FastSpan = f.fast
	}
	if changed("slow") {
		cfg.SlowSpan = f.slow
	}
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("format") {
		cfg.SaveFormat = f.format
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("report-dir") {
		cfg.ReportDir = f.reportDir
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("bars-dir") {
		cfg.BarsDir = f.barsDir
	}
}
