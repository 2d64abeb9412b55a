package signal

import "fmt"

// CrossState flags a row where the fast EMA crossed or touched the slow one.
// Both flags are set when the two series are equal on this row and the previous one.
type CrossState struct {
	Buy  bool
	Sell bool
}

// DetectCrossings compares each row with the previous one. Row 0 has no
// previous row and never flags. Comparisons are non-strict, so touching
// counts as crossing.
func DetectCrossings(fast, slow []float64) ([]CrossState, error) {
	if len(fast) != len(slow) {
		return nil, fmt.Errorf("%w: fast=%d slow=%d", ErrShapeMismatch, len(fast), len(slow))
	}
	out := make([]CrossState, len(fast))
	for i := 1; i < len(fast); i++ {
		prevFast, prevSlow := fast[i-1], slow[i-1]
		out[i] = CrossState{
			Sell: fast[i] <= slow[i] && prevFast >= prevSlow,
			Buy:  fast[i] >= slow[i] && prevFast <= prevSlow,
		}
	}
	return out, nil
}
