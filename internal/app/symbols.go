package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"index-signals/internal/model"
)

// LoadSymbolsFile reads the ordered symbol list from a file.
// Supported formats:
//   - .yaml/.yml : list of {ticker, name}
//   - .json      : array of {"ticker", "name"}
//   - .txt       : "TICKER,Display Name" per line, '#' lines are comments;
//     a bare ticker uses itself as the name
func LoadSymbolsFile(path string) ([]model.Symbol, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}

	var syms []model.Symbol
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &syms); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case ".json":
		var raw []struct {
			Ticker string `json:"ticker"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		for _, r := range raw {
			syms = append(syms, model.Symbol{Ticker: r.Ticker, Name: r.Name})
		}
	case ".txt":
		syms = parseSymbolsFromText(string(content))
	default:
		return nil, fmt.Errorf("unsupported symbols file extension %q (use .yaml, .json or .txt)", filepath.Ext(path))
	}

	for i := range syms {
		syms[i].Ticker = strings.TrimSpace(syms[i].Ticker)
		syms[i].Name = strings.TrimSpace(syms[i].Name)
	}
	slog.Info("loaded symbols from file", "count", len(syms), "path", path)
	return syms, nil
}

func parseSymbolsFromText(s string) []model.Symbol {
	var syms []model.Symbol
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ticker, name, ok := strings.Cut(line, ",")
		if !ok {
			name = ticker
		}
		syms = append(syms, model.Symbol{Ticker: ticker, Name: name})
	}
	return syms
}
