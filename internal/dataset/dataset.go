// Package dataset assembles per-symbol alert rows into the output table.
package dataset

import (
	"strconv"

	"index-signals/internal/model"
)

// Dataset is the terminal table: rows grouped by symbol in configured order,
// each group ascending by date.
type Dataset struct {
	FastSpan int
	SlowSpan int
	Rows     []model.AlertRow
}

// Columns returns the output header for the configured spans.
func (d Dataset) Columns() []string {
	return []string{
		"Date", "Open", "High", "Low", "Close", "Volume",
		EMAColumn(d.FastSpan), EMAColumn(d.SlowSpan),
		"Signal", "Ticker",
	}
}

// EMAColumn names the EMA column for span, e.g. "EMA_8".
func EMAColumn(span int) string {
	return "EMA_" + strconv.Itoa(span)
}

// Assemble concatenates groups in order without sorting or deduplicating.
func Assemble(fastSpan, slowSpan int, groups [][]model.AlertRow) Dataset {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	rows := make([]model.AlertRow, 0, n)
	for _, g := range groups {
		rows = append(rows, g...)
	}
	return Dataset{FastSpan: fastSpan, SlowSpan: slowSpan, Rows: rows}
}
