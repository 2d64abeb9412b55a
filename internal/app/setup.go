package app

import (
	"fmt"
	"log/slog"
	"strings"

	"index-signals/internal/model"
	"index-signals/internal/provider"
	"index-signals/internal/provider/polygon"
	"index-signals/internal/provider/yahoo"
)

// CreateDataSource creates the DataSource from config. BarsDir, when set,
// replaces the remote provider with local CSV files.
func CreateDataSource(cfg *Config) (provider.DataSource, error) {
	if cfg.BarsDir != "" {
		return provider.LoadStaticDir(cfg.BarsDir, tickers(cfg.Symbols))
	}
	retries := uint64(cfg.FetchRetries)
	switch strings.ToLower(cfg.DataProvider) {
	case "yahoo":
		return yahoo.NewSource(retries), nil
	case "polygon":
		if len(cfg.PolygonAPIKeys) == 0 {
			return nil, fmt.Errorf("%w: POLYGON_API_KEY or POLYGON_API_KEYS not set", ErrConfig)
		}
		slog.Debug("polygon key pool", "keys", len(cfg.PolygonAPIKeys))
		return polygon.NewSource(cfg.PolygonBaseURL, cfg.PolygonAPIKeys, retries)
	default:
		return nil, fmt.Errorf("%w: unsupported data provider %q (options: yahoo, polygon)", ErrConfig, cfg.DataProvider)
	}
}

func tickers(syms []model.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Ticker
	}
	return out
}
