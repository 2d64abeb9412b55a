package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"index-signals/internal/model"
	"index-signals/internal/provider"
	"index-signals/internal/signal"
)

var start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func makeBars(closes ...float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i+1),
			Open:   c,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 100,
		}
	}
	return bars
}

func TestAssemblePreservesGroupOrder(t *testing.T) {
	a := []model.AlertRow{{Ticker: "A", Date: start.AddDate(0, 0, 2)}, {Ticker: "A", Date: start.AddDate(0, 0, 3)}}
	b := []model.AlertRow{{Ticker: "B", Date: start.AddDate(0, 0, 1)}}

	ds := Assemble(8, 21, [][]model.AlertRow{a, {}, b})
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, []string{"A", "A", "B"}, []string{ds.Rows[0].Ticker, ds.Rows[1].Ticker, ds.Rows[2].Ticker})
	// grouped by symbol, not globally sorted by date
	assert.True(t, ds.Rows[2].Date.Before(ds.Rows[0].Date))
}

func TestColumns(t *testing.T) {
	ds := Dataset{FastSpan: 8, SlowSpan: 21}
	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Volume", "EMA_8", "EMA_21", "Signal", "Ticker"}, ds.Columns())
}

func TestBuildSkipsEmptySymbol(t *testing.T) {
	src := provider.NewStatic()
	src.Bars["^GSPC"] = makeBars(10, 11, 12, 11, 10)
	src.Bars["^DJI"] = nil

	symbols := []model.Symbol{
		{Ticker: "^GSPC", Name: "S&P 500"},
		{Ticker: "^DJI", Name: "Dow Jones Industrial"},
	}
	ds, report, err := Build(context.Background(), src, signal.NewProcessor(), symbols, start, Options{})
	require.NoError(t, err)

	require.Len(t, ds.Rows, 5)
	for i, r := range ds.Rows {
		assert.Equal(t, "S&P 500", r.Ticker)
		if i > 0 {
			assert.True(t, r.Date.After(ds.Rows[i-1].Date))
		}
	}

	require.Len(t, report.Symbols, 2)
	assert.Equal(t, 5, report.Symbols[0].Rows)
	assert.Equal(t, 0, report.Symbols[1].Rows)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "^DJI", report.Failed[0].Ticker)
}

func TestBuildEmptySymbolOnly(t *testing.T) {
	src := provider.NewStatic()
	ds, report, err := Build(context.Background(), src, signal.NewProcessor(),
		[]model.Symbol{{Ticker: "^RUT", Name: "Russell 2000"}}, start, Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
	assert.Len(t, report.Failed, 1)
}

func TestBuildFetchErrorDoesNotStopOthers(t *testing.T) {
	src := provider.NewStatic()
	src.Errs["^GSPC"] = errors.New("rate limited")
	src.Bars["^IXIC"] = makeBars(1, 2, 3)
	src.Bars["^RUT"] = makeBars(3, 2, 1, 2)

	symbols := []model.Symbol{
		{Ticker: "^GSPC", Name: "S&P 500"},
		{Ticker: "^IXIC", Name: "Nasdaq Composite"},
		{Ticker: "^RUT", Name: "Russell 2000"},
	}
	ds, report, err := Build(context.Background(), src, signal.NewProcessor(), symbols, start, Options{Workers: 1})
	require.NoError(t, err)

	require.Len(t, ds.Rows, 7)
	assert.Equal(t, "Nasdaq Composite", ds.Rows[0].Ticker)
	assert.Equal(t, "Nasdaq Composite", ds.Rows[2].Ticker)
	assert.Equal(t, "Russell 2000", ds.Rows[3].Ticker)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Reason, "rate limited")
	assert.Contains(t, report.FailedReasons(), "^GSPC: ")
}

func TestBuildMalformedBarsDegradeSymbol(t *testing.T) {
	src := provider.NewStatic()
	bars := makeBars(1, 2, 3)
	bars[2].Date = bars[1].Date
	src.Bars["X"] = bars

	ds, report, err := Build(context.Background(), src, signal.NewProcessor(),
		[]model.Symbol{{Ticker: "X", Name: "X"}}, start, Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
	require.Len(t, report.Failed, 1)
}

func TestBuildMatchesSequentialProcessing(t *testing.T) {
	src := provider.NewStatic()
	symbols := []model.Symbol{
		{Ticker: "A", Name: "Alpha"},
		{Ticker: "B", Name: "Beta"},
		{Ticker: "C", Name: "Gamma"},
		{Ticker: "D", Name: "Delta"},
	}
	proc := signal.Processor{FastSpan: 2, SlowSpan: 3}
	var want []model.AlertRow
	for i, s := range symbols {
		bars := makeBars(10, 10, 10, 12, 15, 9, float64(8+i))
		src.Bars[s.Ticker] = bars
		rows, err := proc.Process(bars, s.Name)
		require.NoError(t, err)
		want = append(want, rows...)
	}

	first, _, err := Build(context.Background(), src, proc, symbols, start, Options{})
	require.NoError(t, err)
	second, _, err := Build(context.Background(), src, proc, symbols, start, Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, want, first.Rows)
	assert.Equal(t, first, second)
}

type countingSource struct {
	provider.DataSource
	calls atomic.Int32
}

func (c *countingSource) FetchDaily(ctx context.Context, ticker string, from time.Time) ([]model.Bar, error) {
	c.calls.Add(1)
	return c.DataSource.FetchDaily(ctx, ticker, from)
}

func TestBuildInvalidSpanFailsBeforeFetching(t *testing.T) {
	static := provider.NewStatic()
	static.Bars["A"] = makeBars(1, 2, 3)
	src := &countingSource{DataSource: static}

	for _, proc := range []signal.Processor{{FastSpan: 0, SlowSpan: 21}, {FastSpan: 8, SlowSpan: -1}} {
		ds, report, err := Build(context.Background(), src, proc, []model.Symbol{{Ticker: "A", Name: "A"}}, start, Options{})
		assert.ErrorIs(t, err, signal.ErrInvalidSpan)
		assert.Nil(t, report)
		assert.Empty(t, ds.Rows)
	}
	assert.Zero(t, src.calls.Load())
}

func TestBuildCancelled(t *testing.T) {
	src := provider.NewStatic()
	src.Bars["A"] = makeBars(1, 2, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, report, err := Build(ctx, src, signal.NewProcessor(), []model.Symbol{{Ticker: "A", Name: "A"}}, start, Options{})
	require.NoError(t, err)
	assert.Empty(t, ds.Rows)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Reason, context.Canceled.Error())
}

func TestReportWriteAndSummary(t *testing.T) {
	src := provider.NewStatic()
	src.Bars["A"] = makeBars(10, 10, 10, 12, 15, 9, 8)
	ds, report, err := Build(context.Background(), src, signal.Processor{FastSpan: 2, SlowSpan: 3},
		[]model.Symbol{{Ticker: "A", Name: "Alpha"}, {Ticker: "B", Name: "Beta"}}, start, Options{})
	require.NoError(t, err)
	require.Len(t, ds.Rows, 7)

	dir := t.TempDir()
	path, err := report.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ReportFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, report.RunID, got.RunID)
	require.Len(t, got.Symbols, 2)
	assert.Equal(t, 3, got.Symbols[0].LongAlerts)
	assert.Equal(t, 1, got.Symbols[0].ShortAlerts)
	assert.Equal(t, "SHORT ALERT", got.Symbols[0].LastAction)
	require.Len(t, got.Failed, 1)
	assert.Equal(t, "B", got.Failed[0].Ticker)

	var buf bytes.Buffer
	RenderSummary(&buf, report)
	assert.Contains(t, buf.String(), "Alpha")
	assert.Contains(t, buf.String(), "Beta")
}
