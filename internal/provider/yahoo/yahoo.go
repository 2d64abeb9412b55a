// Package yahoo fetches daily bars from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"index-signals/internal/model"
	"index-signals/internal/provider"
)

// Source is a DataSource backed by Yahoo Finance.
type Source struct {
	Retries uint64
	// now is replaceable in tests
	now func() time.Time
}

// NewSource creates a Yahoo source retrying each fetch up to retries times.
func NewSource(retries uint64) *Source {
	return &Source{Retries: retries, now: time.Now}
}

func (s *Source) GetName() string { return "Yahoo" }

func (s *Source) Close() error { return nil }

// FetchDaily downloads daily bars for ticker from start through today.
func (s *Source) FetchDaily(ctx context.Context, ticker string, start time.Time) ([]model.Bar, error) {
	from := model.Day(start)
	to := model.Day(s.now().UTC()).AddDate(0, 0, 1)

	var bars []model.Bar
	attempt := 0
	err := provider.Retry(ctx, s.Retries, func() error {
		attempt++
		if attempt > 1 {
			slog.Debug("retry fetch", "provider", "yahoo", "ticker", ticker, "attempt", attempt)
		}
		params := &chart.Params{
			Symbol:   ticker,
			Start:    datetime.New(&from),
			End:      datetime.New(&to),
			Interval: datetime.OneDay,
		}
		params.Context = &ctx
		iter := chart.Get(params)

		var raw []*finance.ChartBar
		for iter.Next() {
			raw = append(raw, iter.Bar())
		}
		if err := iter.Err(); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("chart %s: %w", ticker, err)
		}
		// Meta is only set once the request succeeded.
		meta := iter.Meta()
		loc := exchangeLocation(meta.ExchangeTimezoneName, meta.Gmtoffset)

		bars = bars[:0]
		for _, b := range raw {
			bars = append(bars, model.Bar{
				Date:   barDate(int64(b.Timestamp), loc),
				Open:   b.Open.InexactFloat64(),
				High:   b.High.InexactFloat64(),
				Low:    b.Low.InexactFloat64(),
				Close:  b.Close.InexactFloat64(),
				Volume: int64(b.Volume),
			})
		}
		return nil
	})
	if err != nil {
		return nil, &provider.FetchError{Ticker: ticker, Err: err}
	}
	bars = normalize(bars)
	if len(bars) == 0 {
		return nil, &provider.FetchError{Ticker: ticker, Err: provider.ErrNoData}
	}
	return bars, nil
}

// exchangeLocation resolves the exchange time zone of a chart. Without tz
// data it falls back to the reported UTC offset.
func exchangeLocation(name string, gmtoffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if gmtoffset != 0 {
		return time.FixedZone(name, gmtoffset)
	}
	return time.UTC
}

// barDate is the exchange-local calendar day of a bar timestamp, as a UTC midnight.
func barDate(ts int64, loc *time.Location) time.Time {
	y, m, d := time.Unix(ts, 0).In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalize drops empty rows (Yahoo reports nulls as zero) and keeps the last
// bar of a date when the live session row repeats the final daily row.
func normalize(bars []model.Bar) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Close == 0 && b.Open == 0 && b.High == 0 && b.Low == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
