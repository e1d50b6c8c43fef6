package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marcboeker/go-duckdb"
)

// loadParquet reads a columnar-binary dataset through an in-memory DuckDB
// connection. DuckDB handles the Parquet decoding; the result set is
// materialized into Dataset columns.
func loadParquet(ctx context.Context, path string) (*Dataset, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT * FROM read_parquet(?)", path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name}
	}

	scan := make([]any, len(names))
	for i := range scan {
		scan[i] = new(any)
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		for i := range columns {
			v := *(scan[i].(*any))
			columns[i].Values = append(columns[i].Values, normalizeSQLValue(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return New(path, columns), nil
}

// normalizeSQLValue widens driver-specific numeric types so checks only
// ever see int64, float64, bool, string, time.Time, or nil.
func normalizeSQLValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case duckdb.Decimal:
		return val.Float64()
	case []byte:
		return string(val)
	case time.Time:
		return val
	default:
		return val
	}
}
