package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"index-signals/internal/dataset"
	"index-signals/internal/provider"
	"index-signals/internal/saver"
	"index-signals/internal/signal"
)

// App holds the dependencies of one run, built by Wire.
type App struct {
	Config    *Config
	Source    provider.DataSource
	Saver     saver.DatasetSaver
	Processor signal.Processor
	Logger    *slog.Logger

	// Stdout receives the dataset when Output is "-".
	Stdout io.Writer
}

// Run fetches, processes and saves the dataset, then writes the run report.
// Per-symbol failures are in the report; only config and sink failures return an error.
func (a *App) Run(ctx context.Context) (*dataset.Report, error) {
	cfg := a.Config
	start, err := cfg.Start()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("run start",
		"provider", a.Source.GetName(),
		"symbols", len(cfg.Symbols),
		"start", cfg.StartDate,
		"fast", a.Processor.FastSpan,
		"slow", a.Processor.SlowSpan,
	)

	ds, report, err := dataset.Build(ctx, a.Source, a.Processor, cfg.Symbols, start, dataset.Options{
		Workers: cfg.Workers,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	logger = logger.With("run_id", report.RunID)
	if len(report.Failed) > 0 {
		logger.Warn("symbols without data", "count", len(report.Failed), "reasons", report.FailedReasons())
	}

	if err := a.save(ds, logger); err != nil {
		return report, err
	}
	if _, err := report.Write(cfg.ReportPath()); err != nil {
		logger.Warn("could not write run report", "error", err)
	}
	return report, nil
}

func (a *App) save(ds dataset.Dataset, logger *slog.Logger) error {
	out := a.Config.Output
	if out == StdoutOutput {
		w := a.Stdout
		if w == nil {
			w = os.Stdout
		}
		if err := saver.WriteCSV(w, ds); err != nil {
			return fmt.Errorf("write dataset to stdout: %w", err)
		}
		logger.Info("dataset written", "output", "stdout", "rows", len(ds.Rows))
		return nil
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := a.Saver.Save(ds, out); err != nil {
		return fmt.Errorf("save dataset %s: %w", out, err)
	}
	logger.Info("dataset written", "output", out, "format", a.Saver.Extension(), "rows", len(ds.Rows))
	return nil
}

// Close releases the data source.
func (a *App) Close() error {
	if a.Source == nil {
		return nil
	}
	return a.Source.Close()
}
