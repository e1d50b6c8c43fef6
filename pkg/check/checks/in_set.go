package checks

import (
	"github.com/spf13/cast"
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(inSet{})
}

type inSetParams struct {
	Column   string `json:"column"`
	ValueSet []any  `json:"value_set"`
}

type inSet struct{}

func (inSet) Name() string     { return "expect_column_values_to_be_in_set" }
func (inSet) Category() string { return "set" }
func (inSet) Description() string {
	return "Values in the named column must belong to the allowed value set"
}

func (c inSet) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p inSetParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	col, err := check.RequireColumn(c.Name(), ds, p.Column)
	if err != nil {
		return check.Result{}, err
	}
	if len(p.ValueSet) == 0 {
		return check.Result{}, check.ExecErrorf(c.Name(), "kwargs missing required field %q", "value_set")
	}

	// Membership is compared on the canonical string form so an allowed
	// value authored as 10 also matches a loaded 10.0.
	allowed := make(map[string]struct{}, len(p.ValueSet))
	allowNull := false
	for _, v := range p.ValueSet {
		if v == nil {
			allowNull = true
			continue
		}
		allowed[cast.ToString(v)] = struct{}{}
	}

	unexpected := 0
	var sample []any
	for _, v := range col.Values {
		if v == nil {
			if !allowNull {
				unexpected++
				sample = check.AppendSample(sample, nil)
			}
			continue
		}
		if _, ok := allowed[cast.ToString(v)]; !ok {
			unexpected++
			sample = check.AppendSample(sample, v)
		}
	}

	return check.RowResult(ds.RowCount(), unexpected, sample), nil
}
