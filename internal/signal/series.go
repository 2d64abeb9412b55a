package signal

import (
	"fmt"

	"index-signals/internal/model"
)

// Processor runs the EMA crossover pipeline for one symbol.
// FastSpan is expected to be smaller than SlowSpan; that is checked by
// configuration, not here.
type Processor struct {
	FastSpan int
	SlowSpan int
}

// NewProcessor returns a Processor with the default 8/21 spans.
func NewProcessor() Processor {
	return Processor{FastSpan: DefaultFastSpan, SlowSpan: DefaultSlowSpan}
}

// Validate reports an ErrInvalidSpan for a span below 1.
func (p Processor) Validate() error {
	for _, span := range []int{p.FastSpan, p.SlowSpan} {
		if span < 1 {
			return fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidSpan, span)
		}
	}
	return nil
}

// Process returns one AlertRow per bar, tagged with name. An empty series
// yields an empty result.
func (p Processor) Process(bars []model.Bar, name string) ([]model.AlertRow, error) {
	if len(bars) == 0 {
		return []model.AlertRow{}, nil
	}
	closes := model.Closes(bars)
	fast, err := EMA(closes, p.FastSpan)
	if err != nil {
		return nil, fmt.Errorf("fast EMA: %w", err)
	}
	slow, err := EMA(closes, p.SlowSpan)
	if err != nil {
		return nil, fmt.Errorf("slow EMA: %w", err)
	}
	crosses, err := DetectCrossings(fast, slow)
	if err != nil {
		return nil, err
	}

	rows := make([]model.AlertRow, len(bars))
	for i, b := range bars {
		action, text := Classify(b, crosses[i])
		rows[i] = model.AlertRow{
			Date:    b.Date,
			Open:    b.Open,
			High:    b.High,
			Low:     b.Low,
			Close:   b.Close,
			Volume:  b.Volume,
			FastEMA: fast[i],
			SlowEMA: slow[i],
			Action:  action,
			Signal:  text,
			Ticker:  name,
		}
	}
	return rows, nil
}
