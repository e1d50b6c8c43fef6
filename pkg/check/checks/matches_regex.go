package checks

import (
	"regexp"

	"github.com/spf13/cast"
	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

func init() {
	check.Register(matchesRegex{})
}

type matchesRegexParams struct {
	Column string `json:"column"`
	Regex  string `json:"regex"`
}

type matchesRegex struct{}

func (matchesRegex) Name() string     { return "expect_column_values_to_match_regex" }
func (matchesRegex) Category() string { return "string" }
func (matchesRegex) Description() string {
	return "Non-null values in the named column must match the given regular expression"
}

func (c matchesRegex) Evaluate(ds *dataset.Dataset, kwargs map[string]any) (check.Result, error) {
	var p matchesRegexParams
	if err := check.DecodeKwargs(c.Name(), kwargs, &p); err != nil {
		return check.Result{}, err
	}
	col, err := check.RequireColumn(c.Name(), ds, p.Column)
	if err != nil {
		return check.Result{}, err
	}
	if p.Regex == "" {
		return check.Result{}, check.ExecErrorf(c.Name(), "kwargs missing required field %q", "regex")
	}
	re, err := regexp.Compile(p.Regex)
	if err != nil {
		return check.Result{}, check.ExecErrorf(c.Name(), "invalid regex %q: %v", p.Regex, err)
	}

	unexpected := 0
	var sample []any
	for _, v := range col.Values {
		if v == nil {
			continue
		}
		if !re.MatchString(cast.ToString(v)) {
			unexpected++
			sample = check.AppendSample(sample, v)
		}
	}

	return check.RowResult(ds.RowCount(), unexpected, sample), nil
}
