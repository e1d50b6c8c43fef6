// Package dataset provides the in-memory tabular dataset model and
// file loaders for the formats veristat can validate.
//
// A Dataset is an ordered sequence of named columns. Values are plain Go
// scalars (int64, float64, bool, string) with nil representing a missing
// value. Datasets are loaded whole into memory and treated as immutable
// for the duration of a validation run.
package dataset

import (
	"path/filepath"
	"strings"
)

// Column is a single named column of scalar values. A nil entry is a null.
type Column struct {
	Name   string
	Values []any
}

// Dataset is an ordered collection of columns sharing a common row count.
type Dataset struct {
	// Path is the file the dataset was loaded from.
	Path    string
	Columns []Column

	byName map[string]int
	rows   int
}

// New builds a Dataset from columns. The row count is the length of the
// longest column; shorter columns are padded with nulls so every column
// shares the common length.
func New(path string, columns []Column) *Dataset {
	rows := 0
	for _, c := range columns {
		if len(c.Values) > rows {
			rows = len(c.Values)
		}
	}
	for i := range columns {
		for len(columns[i].Values) < rows {
			columns[i].Values = append(columns[i].Values, nil)
		}
	}

	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		byName[c.Name] = i
	}

	return &Dataset{
		Path:    path,
		Columns: columns,
		byName:  byName,
		rows:    rows,
	}
}

// Name returns the dataset's base name without its file extension.
func (d *Dataset) Name() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RowCount returns the number of rows common to all columns.
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnNames returns column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.byName[name]
	if !ok {
		return nil, false
	}
	return &d.Columns[i], true
}
