package saver

import (
	"path/filepath"
	"strings"

	"index-signals/internal/dataset"
)

// DatasetSaver persists the assembled dataset to path.
type DatasetSaver interface {
	Save(ds dataset.Dataset, path string) error
	Extension() string
}

// NewDatasetSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewDatasetSaver(format string) DatasetSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// FormatForPath picks the save format: explicit format first, then the output
// extension, then csv.
func FormatForPath(format, path string) string {
	if f := strings.ToLower(strings.TrimSpace(format)); f != "" {
		return f
	}
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "csv", "json", "parquet":
		return ext
	default:
		return "csv"
	}
}
