package signal

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"index-signals/internal/model"
)

const (
	longEntryFactor  = 1.01
	shortEntryFactor = 0.99
	pricePlaces      = 2
)

// Classify maps a bar and its cross state to an alert. Buy wins when both
// flags are set.
func Classify(bar model.Bar, cross CrossState) (model.Action, string) {
	switch {
	case cross.Buy:
		return model.ActionLong, "Enter Long at " + FormatPrice(longEntryFactor*bar.High)
	case cross.Sell:
		return model.ActionShort, "Enter Short at " + FormatPrice(shortEntryFactor*bar.Low)
	default:
		return model.ActionNone, ""
	}
}

// FormatPrice renders v rounded to two decimals in fixed-point, e.g. "4512.30".
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		// decimal panics on non-finite input
		return strconv.FormatFloat(v, 'f', pricePlaces, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(pricePlaces)
}
