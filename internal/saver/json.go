package saver

import (
	"encoding/json"
	"os"

	"index-signals/internal/dataset"
	"index-signals/internal/model"
)

// JSONSaver writes the dataset as an array of objects keyed by column name.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(ds dataset.Dataset, path string) error {
	fast, slow := dataset.EMAColumn(ds.FastSpan), dataset.EMAColumn(ds.SlowSpan)
	out := make([]map[string]any, len(ds.Rows))
	for i, r := range ds.Rows {
		out[i] = map[string]any{
			"Date":   r.Date.Format(model.DateLayout),
			"Open":   r.Open,
			"High":   r.High,
			"Low":    r.Low,
			"Close":  r.Close,
			"Volume": r.Volume,
			fast:     r.FastEMA,
			slow:     r.SlowEMA,
			"Signal": r.Signal,
			"Ticker": r.Ticker,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
