package checks

import (
	"time"

	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(ofType{})
}

type ofTypeParams struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

type ofType struct{}

func (ofType) Name() string     { return "expect_column_values_to_be_of_type" }
func (ofType) Category() string { return "schema" }
func (ofType) Description() string {
	return "Non-null values in the named column must have the declared scalar type"
}

func (c ofType) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p ofTypeParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	col, err := check.RequireColumn(c.Name(), ds, p.Column)
	if err != nil {
		return check.Result{}, err
	}

	match, ok := typeMatchers[p.Type]
	if !ok {
		return check.Result{}, check.ExecErrorf(c.Name(),
			"unknown type %q (want int, float, number, string, bool, or datetime)", p.Type)
	}

	unexpected := 0
	var sample []any
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		if !match(v) {
			unexpected++
			sample = check.AppendSample(sample, v)
		}
	}

	return check.RowResult(ds.RowCount(), unexpected, sample), nil
}

// typeMatchers maps the declared type name to a scalar predicate.
// Integers satisfy "float" and "number" since a loaded whole number may
// have been typed as int64.
var typeMatchers = map[string]func(any) bool{
	"int": func(v any) bool {
		_, ok := v.(int64)
		return ok
	},
	"float": isNumber,
	"number": isNumber,
	"string": func(v any) bool {
		_, ok := v.(string)
		return ok
	},
	"bool": func(v any) bool {
		_, ok := v.(bool)
		return ok
	},
	"datetime": func(v any) bool {
		_, ok := v.(time.Time)
		return ok
	},
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	default:
		return false
	}
}
