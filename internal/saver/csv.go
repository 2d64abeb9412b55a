package saver

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"index-signals/internal/dataset"
	"index-signals/internal/model"
)

// CSVSaver writes the dataset as CSV with a header line.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(ds dataset.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV renders the dataset to w. Used for files and for stdout handoff.
func WriteCSV(w io.Writer, ds dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Columns()); err != nil {
		return err
	}
	for _, r := range ds.Rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(r model.AlertRow) []string {
	return []string{
		r.Date.Format(model.DateLayout),
		floatStr(r.Open),
		floatStr(r.High),
		floatStr(r.Low),
		floatStr(r.Close),
		strconv.FormatInt(r.Volume, 10),
		floatStr(r.FastEMA),
		floatStr(r.SlowEMA),
		r.Signal,
		r.Ticker,
	}
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
