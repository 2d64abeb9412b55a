package dataset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"index-signals/internal/model"
	"index-signals/internal/provider"
	"index-signals/internal/signal"
)

// symbolResult is what one symbol pipeline leaves in its slot.
type symbolResult struct {
	rows []model.AlertRow
	bars int
	err  error
}

// Options tunes Build.
type Options struct {
	// Workers caps concurrent symbol pipelines; <= 0 runs all symbols at once.
	Workers int
	Logger  *slog.Logger
}

// Build fetches and processes every symbol concurrently and assembles the
// dataset in symbol order. A failing symbol contributes no rows and is
// recorded in the report; it never aborts the run. Invalid spans fail before
// any symbol is fetched.
func Build(
	ctx context.Context,
	src provider.DataSource,
	proc signal.Processor,
	symbols []model.Symbol,
	start time.Time,
	opts Options,
) (Dataset, *Report, error) {
	if err := proc.Validate(); err != nil {
		return Dataset{}, nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := NewReport(src.GetName(), proc.FastSpan, proc.SlowSpan, start)

	results := make([]symbolResult, len(symbols))
	var g errgroup.Group
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			results[i] = runSymbol(ctx, src, proc, sym, start, logger)
			return nil
		})
	}
	_ = g.Wait() // workers record failures in their slot

	groups := make([][]model.AlertRow, len(symbols))
	for i, sym := range symbols {
		r := results[i]
		groups[i] = r.rows
		report.add(sym, r)
	}
	report.finish()

	ds := Assemble(proc.FastSpan, proc.SlowSpan, groups)
	logger.Info("dataset assembled", "rows", len(ds.Rows), "symbols", len(symbols), "failed", len(report.Failed))
	return ds, report, nil
}

func runSymbol(
	ctx context.Context,
	src provider.DataSource,
	proc signal.Processor,
	sym model.Symbol,
	start time.Time,
	logger *slog.Logger,
) symbolResult {
	log := logger.With("ticker", sym.Ticker, "name", sym.Name)

	bars, err := src.FetchDaily(ctx, sym.Ticker, start)
	if err == nil && len(bars) == 0 {
		err = &provider.FetchError{Ticker: sym.Ticker, Err: provider.ErrNoData}
	}
	if err == nil {
		err = model.ValidateBars(bars)
	}
	if err != nil {
		log.Warn("symbol skipped", "error", err)
		return symbolResult{rows: []model.AlertRow{}, err: err}
	}

	rows, err := proc.Process(bars, sym.Name)
	if err != nil {
		if errors.Is(err, signal.ErrShapeMismatch) {
			log.Error("symbol pipeline failed", "error", err)
		} else {
			log.Warn("symbol pipeline failed", "error", err)
		}
		return symbolResult{rows: []model.AlertRow{}, bars: len(bars), err: err}
	}
	log.Info("symbol processed", "bars", len(bars), "rows", len(rows))
	return symbolResult{rows: rows, bars: len(bars)}
}
