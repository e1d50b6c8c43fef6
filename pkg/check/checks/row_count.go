package checks

import (
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(rowCount{})
}

type rowCountParams struct {
	MinValue *int `json:"min_value"`
	MaxValue *int `json:"max_value"`
}

type rowCount struct{}

func (rowCount) Name() string     { return "expect_table_row_count_to_be_between" }
func (rowCount) Category() string { return "volume" }
func (rowCount) Description() string {
	return "The dataset's row count must fall inside [min_value, max_value]"
}

func (c rowCount) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p rowCountParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	if p.MinValue == nil && p.MaxValue == nil {
		return check.Result{}, check.ExecErrorf(c.Name(), "at least one of min_value, max_value is required")
	}

	rows := ds.RowCount()
	failed := (p.MinValue != nil && rows < *p.MinValue) ||
		(p.MaxValue != nil && rows > *p.MaxValue)
	if !failed {
		return check.SuiteResult(false, nil), nil
	}
	return check.SuiteResult(true, []any{rows}), nil
}
