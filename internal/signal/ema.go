// Package signal computes EMA crossover alerts over daily bar series.
// Everything here is pure: no logging, no I/O, no state across calls.
package signal

import (
	"errors"
	"fmt"
)

const (
	DefaultFastSpan = 8
	DefaultSlowSpan = 21
)

var (
	// ErrInvalidSpan marks a span below 1. It is a configuration error.
	ErrInvalidSpan = errors.New("invalid EMA span")
	// ErrShapeMismatch marks fast/slow series of different length.
	ErrShapeMismatch = errors.New("EMA series length mismatch")
)

// EMA returns the exponential moving average of values for span, seeded with
// the first value: out[i] = a*values[i] + (1-a)*out[i-1], a = 2/(span+1).
func EMA(values []float64, span int) ([]float64, error) {
	if span < 1 {
		return nil, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidSpan, span)
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}
