//go:build wireinject
// +build wireinject

package main

import (
	"index-signals/internal/app"

	"github.com/google/wire"
)

// InitializeApp builds App (DataSource + DatasetSaver + Processor + Logger) via Wire.
// Caller must call a.Close() when done.
func InitializeApp(cfg *app.Config) (*app.App, error) {
	wire.Build(
		app.ProvideLogger,
		app.ProvideDataSource,
		app.ProvideDatasetSaver,
		app.ProvideProcessor,
		wire.Struct(new(app.App), "Config", "Source", "Saver", "Processor", "Logger"),
	)
	return nil, nil
}
