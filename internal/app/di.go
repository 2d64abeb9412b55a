package app

import (
	"fmt"
	"log/slog"

	"index-signals/internal/provider"
	"index-signals/internal/saver"
	"index-signals/internal/signal"
	"index-signals/internal/slogx"
)

// ProvideLogger builds the run logger at the configured level (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	return slogx.NewDefault(cfg.LogLevel)
}

// ProvideDataSource creates the configured DataSource (for Wire).
// Caller must call Close() when done.
func ProvideDataSource(cfg *Config) (provider.DataSource, error) {
	return CreateDataSource(cfg)
}

// ProvideDatasetSaver creates DatasetSaver from config (for Wire).
// Returns error if the format is not supported.
func ProvideDatasetSaver(cfg *Config) (saver.DatasetSaver, error) {
	s := saver.NewDatasetSaver(cfg.Format())
	if s == nil {
		return nil, fmt.Errorf("%w: unsupported SAVE_FORMAT %q (use: csv, parquet, json)", ErrConfig, cfg.Format())
	}
	return s, nil
}

// ProvideProcessor builds the series processor with the configured spans (for Wire).
func ProvideProcessor(cfg *Config) signal.Processor {
	return signal.Processor{FastSpan: cfg.FastSpan, SlowSpan: cfg.SlowSpan}
}
