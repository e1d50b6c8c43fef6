package checks

import (
	"github.com/spf13/cast"
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(inRange{})
}

type inRangeParams struct {
	Column    string   `json:"column"`
	MinValue  *float64 `json:"min_value"`
	MaxValue  *float64 `json:"max_value"`
	StrictMin bool     `json:"strict_min"`
	StrictMax bool     `json:"strict_max"`
}

type inRange struct{}

func (inRange) Name() string     { return "expect_column_values_to_be_between" }
func (inRange) Category() string { return "numeric" }
func (inRange) Description() string {
	return "Numeric values in the named column must fall inside [min_value, max_value]"
}

func (c inRange) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p inRangeParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	col, err := check.RequireColumn(c.Name(), ds, p.Column)
	if err != nil {
		return check.Result{}, err
	}
	if p.MinValue == nil && p.MaxValue == nil {
		return check.Result{}, check.ExecErrorf(c.Name(), "at least one of min_value, max_value is required")
	}

	unexpected := 0
	var sample []any
	for _, v := range col.Values {
		// Nulls cannot satisfy a range bound; cast would coerce nil to 0.
		if v == nil {
			unexpected++
			sample = check.AppendSample(sample, nil)
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			unexpected++
			sample = check.AppendSample(sample, v)
			continue
		}
		if outOfBounds(f, &p) {
			unexpected++
			sample = check.AppendSample(sample, v)
		}
	}

	return check.RowResult(ds.RowCount(), unexpected, sample), nil
}

// outOfBounds applies the configured bounds. Bounds are inclusive unless
// the corresponding strict flag is set.
func outOfBounds(f float64, p *inRangeParams) bool {
	if p.MinValue != nil {
		if f < *p.MinValue || (p.StrictMin && f == *p.MinValue) {
			return true
		}
	}
	if p.MaxValue != nil {
		if f > *p.MaxValue || (p.StrictMax && f == *p.MaxValue) {
			return true
		}
	}
	return false
}
