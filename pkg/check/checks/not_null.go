package checks

import (
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(notNull{})
}

type notNullParams struct {
	Column string `json:"column"`
}

type notNull struct{}

func (notNull) Name() string     { return "expect_column_values_to_not_be_null" }
func (notNull) Category() string { return "nullity" }
func (notNull) Description() string {
	return "Values in the named column must not be null"
}

func (c notNull) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p notNullParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	col, err := check.RequireColumn(c.Name(), ds, p.Column)
	if err != nil {
		return check.Result{}, err
	}

	unexpected := 0
	var sample []any
	for _, v := range col.Values {
		if v == nil {
			unexpected++
			sample = check.AppendSample(sample, nil)
		}
	}

	return check.RowResult(ds.RowCount(), unexpected, sample), nil
}
