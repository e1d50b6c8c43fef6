package checks

import (
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(columnsMatch{})
}

type columnsMatchParams struct {
	ColumnList []string `json:"column_list"`
}

type columnsMatch struct{}

func (columnsMatch) Name() string     { return "expect_table_columns_to_match_ordered_list" }
func (columnsMatch) Category() string { return "schema" }
func (columnsMatch) Description() string {
	return "The dataset's column names must exactly equal the expected ordered list"
}

// Evaluate compares the full ordered column name sequence. This is a
// suite-level check: it is evaluated once, and a mismatch counts as a
// single unexpected unit with the observed columns as evidence.
func (c columnsMatch) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p columnsMatchParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	if len(p.ColumnList) == 0 {
		return check.Result{}, check.ExecErrorf(c.Name(), "kwargs missing required field %q", "column_list")
	}

	actual := ds.ColumnNames()
	if equalStrings(actual, p.ColumnList) {
		return check.SuiteResult(false, nil), nil
	}

	var sample []any
	for _, name := range actual {
		sample = check.AppendSample(sample, name)
	}
	return check.SuiteResult(true, sample), nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
