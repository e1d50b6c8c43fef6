package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// loadJSON reads a record-oriented JSON dataset: a top-level array of flat
// objects. Column order follows first appearance across records, so the
// first record's key order defines the initial layout. Numbers are decoded
// via json.Number to keep integers exact.
func loadJSON(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("expected a top-level array of records")}
	}

	var columns []Column
	byName := map[string]int{}
	row := 0

	for dec.More() {
		keys, values, err := decodeRecord(dec)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}

		for i, key := range keys {
			idx, ok := byName[key]
			if !ok {
				// New column mid-file: backfill earlier rows with nulls.
				idx = len(columns)
				byName[key] = idx
				columns = append(columns, Column{
					Name:   key,
					Values: make([]any, row),
				})
			}
			columns[idx].Values = append(columns[idx].Values, values[i])
		}

		// Columns absent from this record get a null.
		row++
		for i := range columns {
			if len(columns[i].Values) < row {
				columns[i].Values = append(columns[i].Values, nil)
			}
		}
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, &ParseError{Path: path, Err: err}
	}

	return New(path, columns), nil
}

// decodeRecord reads one flat JSON object token by token, preserving key
// order (a plain map decode would randomize it).
func decodeRecord(dec *json.Decoder) ([]string, []any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected a record object, got %v", tok)
	}

	var keys []string
	var values []any
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected a field name, got %v", keyTok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}

		keys = append(keys, key)
		values = append(values, normalizeJSONValue(raw))
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	return keys, values, nil
}

func normalizeJSONValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case nil, bool, string:
		return val
	default:
		// Nested structures are not tabular; keep their string form as
		// evidence rather than failing the whole load.
		return fmt.Sprintf("%v", val)
	}
}
