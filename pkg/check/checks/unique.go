package checks

import (
	"github.com/spf13/cast"
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(unique{})
}

type uniqueParams struct {
	Column string `json:"column"`
}

type unique struct{}

func (unique) Name() string     { return "expect_column_values_to_be_unique" }
func (unique) Category() string { return "uniqueness" }
func (unique) Description() string {
	return "Non-null values in the named column must not repeat"
}

func (c unique) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p uniqueParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	col, err := check.RequireColumn(c.Name(), ds, p.Column)
	if err != nil {
		return check.Result{}, err
	}

	counts := make(map[string]int, len(col.Values))
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		counts[cast.ToString(v)]++
	}

	// Every row holding a duplicated value is unexpected, in row order.
	unexpected := 0
	var sample []any
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		if counts[cast.ToString(v)] > 1 {
			unexpected++
			sample = check.AppendSample(sample, v)
		}
	}

	return check.RowResult(ds.RowCount(), unexpected, sample), nil
}
