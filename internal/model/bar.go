package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-date format used for bars in files and logs.
const DateLayout = "2006-01-02"

// ErrMalformedBars is returned by ValidateBars when a series cannot be processed.
var ErrMalformedBars = errors.New("malformed bars")

// Bar represents one daily OHLCV observation.
// Shared by providers, the signal pipeline and savers.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateBars checks that prices are finite, volume is non-negative and
// dates are strictly ascending.
func ValidateBars(bars []Bar) error {
	for i, b := range bars {
		for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d (%s) has non-finite price", ErrMalformedBars, i, b.Date.Format(DateLayout))
			}
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: row %d (%s) has negative volume %d", ErrMalformedBars, i, b.Date.Format(DateLayout), b.Volume)
		}
		if i > 0 && !b.Date.After(bars[i-1].Date) {
			return fmt.Errorf("%w: row %d (%s) not after %s", ErrMalformedBars, i, b.Date.Format(DateLayout), bars[i-1].Date.Format(DateLayout))
		}
	}
	return nil
}

// Closes returns the close prices of bars in order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
