package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// loadCSV reads a delimited-text dataset. The first record is the header;
// every cell is typed independently via inferScalar.
func loadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("missing header row")}
	}

	header := records[0]
	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{
			Name:   name,
			Values: make([]any, 0, len(records)-1),
		}
	}

	for _, record := range records[1:] {
		for i := range columns {
			if i < len(record) {
				columns[i].Values = append(columns[i].Values, inferScalar(record[i]))
			} else {
				columns[i].Values = append(columns[i].Values, nil)
			}
		}
	}

	return New(path, columns), nil
}
