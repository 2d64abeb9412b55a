package signal

import (
	"testing"
)

const benchBars = 252 * 30 // ~30 years of daily bars

// BenchmarkProcess runs the full pipeline over one long series.
// go test -bench=BenchmarkProcess -benchmem ./internal/signal/
func BenchmarkProcess(b *testing.B) {
	closes := make([]float64, benchBars)
	for i := range closes {
		closes[i] = 3000 + float64(i%97) - float64(i%41)
	}
	bars := barsFromCloses(closes)
	p := NewProcessor()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Process(bars, "S&P 500"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEMA isolates the recurrence.
func BenchmarkEMA(b *testing.B) {
	closes := make([]float64, benchBars)
	for i := range closes {
		closes[i] = float64(i % 113)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = EMA(closes, DefaultSlowSpan)
	}
}
