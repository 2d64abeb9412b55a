package provider

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"index-signals/internal/model"
)

// Static serves bars from memory. Used for offline runs (--bars-dir) and tests.
type Static struct {
	Bars map[string][]model.Bar
	Errs map[string]error
}

// NewStatic returns an empty Static source.
func NewStatic() *Static {
	return &Static{Bars: make(map[string][]model.Bar), Errs: make(map[string]error)}
}

func (s *Static) GetName() string { return "Static" }

func (s *Static) Close() error { return nil }

// FetchDaily returns the stored bars for ticker dated on or after start.
func (s *Static) FetchDaily(ctx context.Context, ticker string, start time.Time) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	if err, ok := s.Errs[ticker]; ok {
		return nil, &FetchError{Ticker: ticker, Err: err}
	}
	from := model.Day(start)
	var out []model.Bar
	for _, b := range s.Bars[ticker] {
		if !b.Date.Before(from) {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, &FetchError{Ticker: ticker, Err: ErrNoData}
	}
	return out, nil
}

// LoadStaticDir reads <dir>/<ticker>.csv for every ticker into a Static source.
// Missing files are skipped (the symbol will report no data). A file that
// cannot be read or parsed is recorded as that ticker's fetch error.
// Expected header: Date,Open,High,Low,Close,Volume.
func LoadStaticDir(dir string, tickers []string) (*Static, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("bars dir: %w", err)
	}
	s := NewStatic()
	for _, t := range tickers {
		path := filepath.Join(dir, fileNameForTicker(t)+".csv")
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				slog.Warn("bars file not found", "ticker", t, "path", path)
				continue
			}
			slog.Warn("bars file unreadable", "ticker", t, "path", path, "error", err)
			s.Errs[t] = fmt.Errorf("open %s: %w", path, err)
			continue
		}
		bars, err := ReadBarsCSV(f)
		f.Close()
		if err != nil {
			slog.Warn("bars file malformed", "ticker", t, "path", path, "error", err)
			s.Errs[t] = fmt.Errorf("%w: %s: %v", model.ErrMalformedBars, path, err)
			continue
		}
		s.Bars[t] = bars
		slog.Debug("loaded bars file", "ticker", t, "path", path, "bars", len(bars))
	}
	return s, nil
}

// fileNameForTicker strips characters that are awkward in file names (e.g. "^GSPC" -> "GSPC").
func fileNameForTicker(t string) string {
	r := strings.NewReplacer("^", "", "/", "_", ":", "_")
	return r.Replace(t)
}

// ReadBarsCSV parses Date,Open,High,Low,Close,Volume rows. Extra columns are ignored.
func ReadBarsCSV(r io.Reader) ([]model.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var bars []model.Bar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b, err := parseBarRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseBarRecord(rec []string, idx map[string]int) (model.Bar, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	var b model.Bar
	d, err := time.ParseInLocation(model.DateLayout, field("date"), time.UTC)
	if err != nil {
		return b, fmt.Errorf("parse date: %w", err)
	}
	b.Date = d
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"open", &b.Open}, {"high", &b.High}, {"low", &b.Low}, {"close", &b.Close}} {
		v, err := strconv.ParseFloat(field(p.name), 64)
		if err != nil {
			return b, fmt.Errorf("parse %s: %w", p.name, err)
		}
		*p.dst = v
	}
	vol, err := strconv.ParseFloat(field("volume"), 64)
	if err != nil {
		return b, fmt.Errorf("parse volume: %w", err)
	}
	b.Volume = int64(vol)
	return b, nil
}
