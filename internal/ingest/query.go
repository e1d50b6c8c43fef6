package ingest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)

// QueryRequest describes one SQL ingestion.
type QueryRequest struct {
	// Name is the dataset name; the landed file is <Name>.csv.
	Name string
	// Driver is a registered database/sql driver, e.g. "duckdb" or
	// "sqlite".
	Driver string
	// DSN is the driver-specific connection string.
	DSN string
	// Query is executed read-only; its result set becomes the dataset.
	Query string
}

// FromQuery runs a SQL query and lands the result set as a CSV file.
func (i *Ingestor) FromQuery(ctx context.Context, r QueryRequest) (string, error) {
	if r.Name == "" {
		return "", fmt.Errorf("query ingestion requires a dataset name")
	}

	db, err := sql.Open(r.Driver, r.DSN)
	if err != nil {
		return "", fmt.Errorf("open %s source: %w", r.Driver, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, r.Query)
	if err != nil {
		return "", fmt.Errorf("run ingestion query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("describe result set: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("encode result set: %w", err)
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for idx := range values {
		ptrs[idx] = &values[idx]
	}
	record := make([]string, len(columns))

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan result row: %w", err)
		}
		for idx, v := range values {
			if v == nil {
				record[idx] = ""
				continue
			}
			record[idx] = cast.ToString(v)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("encode result set: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read result set: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("encode result set: %w", err)
	}

	name := r.Name
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return i.land(name, buf.Bytes())
}
