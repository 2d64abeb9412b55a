package dataset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"index-signals/internal/model"
)

// ReportFileName is written into the report dir after every run.
const ReportFileName = ".lastrun.json"

// SymbolStat summarizes one symbol of a run.
type SymbolStat struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Bars        int    `json:"bars"`
	Rows        int    `json:"rows"`
	LongAlerts  int    `json:"long_alerts"`
	ShortAlerts int    `json:"short_alerts"`
	FirstDate   string `json:"first_date,omitempty"`
	LastDate    string `json:"last_date,omitempty"`
	LastSignal  string `json:"last_signal,omitempty"`
	LastAction  string `json:"last_action,omitempty"`
}

type failedEntry struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report records the outcome of one run.
type Report struct {
	RunID      string        `json:"run_id"`
	Provider   string        `json:"provider"`
	FastSpan   int           `json:"fast_span"`
	SlowSpan   int           `json:"slow_span"`
	StartDate  string        `json:"start_date"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Symbols    []SymbolStat  `json:"symbols"`
	Failed     []failedEntry `json:"failed,omitempty"`
}

// NewReport starts a report with a fresh run id.
func NewReport(providerName string, fastSpan, slowSpan int, start time.Time) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Provider:  providerName,
		FastSpan:  fastSpan,
		SlowSpan:  slowSpan,
		StartDate: start.Format(model.DateLayout),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) add(sym model.Symbol, res symbolResult) {
	st := SymbolStat{Ticker: sym.Ticker, Name: sym.Name, Bars: res.bars, Rows: len(res.rows)}
	for _, row := range res.rows {
		switch row.Action {
		case model.ActionLong:
			st.LongAlerts++
		case model.ActionShort:
			st.ShortAlerts++
		}
		if row.Signal != "" {
			st.LastSignal = row.Signal
			st.LastAction = row.Action.String()
		}
	}
	if n := len(res.rows); n > 0 {
		st.FirstDate = res.rows[0].Date.Format(model.DateLayout)
		st.LastDate = res.rows[n-1].Date.Format(model.DateLayout)
	}
	r.Symbols = append(r.Symbols, st)
	if res.err != nil {
		r.Failed = append(r.Failed, failedEntry{Ticker: sym.Ticker, Name: sym.Name, Reason: res.err.Error()})
	}
}

func (r *Report) finish() {
	r.FinishedAt = time.Now().UTC()
}

// Write saves the report as JSON into dir.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	p := filepath.Join(dir, ReportFileName)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", err
	}
	slog.Info("report written", "path", p, "symbols", len(r.Symbols), "failed", len(r.Failed))
	return p, nil
}

// FailedReasons joins failures for a single log line, truncating long lists.
func (r *Report) FailedReasons() string {
	if len(r.Failed) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range r.Failed {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f.Ticker)
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(r.Failed) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(r.Failed)-5))
			break
		}
	}
	return b.String()
}
