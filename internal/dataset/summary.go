package dataset

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary prints one line per symbol of the report.
func RenderSummary(w io.Writer, r *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("EMA %d/%d crossover alerts (%s since %s)", r.FastSpan, r.SlowSpan, r.Provider, r.StartDate)
	t.AppendHeader(table.Row{"Ticker", "Name", "Rows", "Long", "Short", "Last Date", "Last Signal"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	var rows, longs, shorts int
	for _, s := range r.Symbols {
		t.AppendRow(table.Row{s.Ticker, s.Name, s.Rows, s.LongAlerts, s.ShortAlerts, s.LastDate, s.LastSignal})
		rows += s.Rows
		longs += s.LongAlerts
		shorts += s.ShortAlerts
	}
	t.AppendFooter(table.Row{"", "Total", rows, longs, shorts, "", ""})
	t.Render()
}
