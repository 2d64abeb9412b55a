package saver

import (
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"index-signals/internal/dataset"
	"index-signals/internal/model"
)

// parquetRow has fixed column names; the configured spans are kept in file metadata.
type parquetRow struct {
	Date    string  `parquet:"date"`
	Open    float64 `parquet:"open"`
	High    float64 `parquet:"high"`
	Low     float64 `parquet:"low"`
	Close   float64 `parquet:"close"`
	Volume  int64   `parquet:"volume"`
	FastEMA float64 `parquet:"ema_fast"`
	SlowEMA float64 `parquet:"ema_slow"`
	Signal  string  `parquet:"signal,optional"`
	Ticker  string  `parquet:"ticker,dict"`
}

// ParquetSaver writes the dataset as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(ds dataset.Dataset, path string) error {
	rows := make([]parquetRow, len(ds.Rows))
	for i, r := range ds.Rows {
		rows[i] = parquetRow{
			Date:    r.Date.Format(model.DateLayout),
			Open:    r.Open,
			High:    r.High,
			Low:     r.Low,
			Close:   r.Close,
			Volume:  r.Volume,
			FastEMA: r.FastEMA,
			SlowEMA: r.SlowEMA,
			Signal:  r.Signal,
			Ticker:  r.Ticker,
		}
	}
	return parquet.WriteFile(path, rows,
		parquet.KeyValueMetadata("ema_fast_span", strconv.Itoa(ds.FastSpan)),
		parquet.KeyValueMetadata("ema_slow_span", strconv.Itoa(ds.SlowSpan)),
		parquet.KeyValueMetadata("columns", strings.Join(ds.Columns(), ",")),
	)
}
