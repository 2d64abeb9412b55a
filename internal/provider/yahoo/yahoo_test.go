package yahoo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"index-signals/internal/model"
)

func TestNormalize(t *testing.T) {
	d1 := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	in := []model.Bar{
		{Date: d1, Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Date: d2},
		{Date: d2, Open: 2, High: 3, Low: 1, Close: 2.5},
		{Date: d2, Open: 2, High: 3.5, Low: 1, Close: 3},
	}
	got := normalize(in)
	assert.Equal(t, []model.Bar{
		{Date: d1, Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Date: d2, Open: 2, High: 3.5, Low: 1, Close: 3},
	}, got)
}

func TestSourceName(t *testing.T) {
	s := NewSource(3)
	assert.Equal(t, "Yahoo", s.GetName())
	assert.NoError(t, s.Close())
}

func TestBarDateUsesExchangeTimezone(t *testing.T) {
	// ^N225 session open, 2024-05-01 00:00 JST
	ts := time.Date(2024, time.April, 30, 15, 0, 0, 0, time.UTC).Unix()
	want := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, want, barDate(ts, exchangeLocation("Asia/Tokyo", 32400)))
	assert.Equal(t, want, barDate(ts, exchangeLocation("", 32400)))
	assert.Equal(t, want.AddDate(0, 0, -1), barDate(ts, exchangeLocation("", 0)))

	// ^GSPC daily row, 2024-05-01 09:30 EDT
	ts = time.Date(2024, time.May, 1, 13, 30, 0, 0, time.UTC).Unix()
	assert.Equal(t, want, barDate(ts, exchangeLocation("America/New_York", -14400)))
}

func TestExchangeLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, exchangeLocation("", 0))
	assert.Equal(t, time.UTC, exchangeLocation("Not/AZone", 0))

	loc := exchangeLocation("Not/AZone", 3600)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3600, offset)
}
