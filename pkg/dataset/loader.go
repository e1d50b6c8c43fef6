package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads the dataset at path into memory, dispatching on the file
// extension. Supported formats are CSV, record-oriented JSON, and Parquet.
// Unrecognized extensions return ErrUnsupportedFormat; unreadable files
// return a wrapped I/O error; malformed content returns a *ParseError.
func Load(ctx context.Context, path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	case ".parquet":
		return loadParquet(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// inferScalar converts a raw CSV cell into a typed scalar. Empty cells are
// nulls. Integers are preferred over floats so ID-like columns keep their
// exact values.
func inferScalar(raw string) any {
	if raw == "" {
		return nil
	}
	if v, err := parseInt(raw); err == nil {
		return v
	}
	if v, err := parseFloat(raw); err == nil {
		return v
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}
