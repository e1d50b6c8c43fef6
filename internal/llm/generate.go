package llm

import (
	"sort"

	"github.com/spf13/cast"

	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
	"github.com/veristat-labs/veristat/pkg/suite"
)

// lowCardinalityMax bounds how many distinct values a column may have
// before set-membership checks stop being suggested for it.
const lowCardinalityMax = 10

// GenerateSuite derives a starter rule suite from the observed shape of
// a dataset: schema and volume checks for the table, then per-column
// checks picked from the data profile. Deterministic, no model call, so
// generated suites are reviewable diffs rather than oracle output.
func GenerateSuite(ds *dataset.Dataset, name string) *suite.Suite {
	s := &suite.Suite{
		Name: name,
		Meta: map[string]any{"generated_from": ds.Path},
	}

	s.Checks = append(s.Checks, check.Def{
		Type:     "expect_table_columns_to_match_ordered_list",
		Category: check.CategoryOf("expect_table_columns_to_match_ordered_list"),
		Kwargs:   map[string]any{"column_list": ds.ColumnNames()},
	})

	rows := ds.RowCount()
	if rows > 0 {
		s.Checks = append(s.Checks, check.Def{
			Type:     "expect_table_row_count_to_be_between",
			Category: check.CategoryOf("expect_table_row_count_to_be_between"),
			Kwargs:   map[string]any{"min_value": (rows + 1) / 2, "max_value": rows * 2},
		})
	}

	for _, name := range ds.ColumnNames() {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}
		s.Checks = append(s.Checks, columnChecks(col, rows)...)
	}
	return s
}

func columnChecks(col *dataset.Column, rows int) []check.Def {
	p := profileColumn(col)
	var defs []check.Def

	add := func(checkType string, kwargs map[string]any) {
		defs = append(defs, check.Def{
			Type:     checkType,
			Category: check.CategoryOf(checkType),
			Kwargs:   kwargs,
		})
	}

	if p.nonNull > 0 && p.nulls == 0 {
		add("expect_column_values_to_not_be_null", map[string]any{"column": col.Name})
	}
	if p.allNumeric && p.nonNull > 0 {
		add("expect_column_values_to_be_between", map[string]any{
			"column": col.Name, "min_value": p.min, "max_value": p.max,
		})
	}
	if !p.allNumeric && p.nonNull > 0 && len(p.distinct) <= lowCardinalityMax && len(p.distinct) < p.nonNull {
		add("expect_column_values_to_be_in_set", map[string]any{
			"column": col.Name, "value_set": p.distinctSorted(),
		})
	}
	if rows > 1 && p.nulls == 0 && len(p.distinct) == p.nonNull {
		add("expect_column_values_to_be_unique", map[string]any{"column": col.Name})
	}
	return defs
}

type columnProfile struct {
	nonNull    int
	nulls      int
	allNumeric bool
	min, max   float64
	distinct   map[string]any
}

func profileColumn(col *dataset.Column) columnProfile {
	p := columnProfile{allNumeric: true, distinct: make(map[string]any)}
	for _, v := range col.Values {
		if v == nil {
			p.nulls++
			continue
		}
		p.nonNull++
		p.distinct[cast.ToString(v)] = v

		f, err := cast.ToFloat64E(v)
		if err != nil {
			p.allNumeric = false
			continue
		}
		if p.nonNull == 1 || f < p.min {
			p.min = f
		}
		if p.nonNull == 1 || f > p.max {
			p.max = f
		}
	}
	if p.nonNull == 0 {
		p.allNumeric = false
	}
	return p
}

// distinctSorted returns the distinct values ordered by their canonical
// string form, so generated suites are stable run to run.
func (p columnProfile) distinctSorted() []any {
	keys := make([]string, 0, len(p.distinct))
	for k := range p.distinct {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = p.distinct[k]
	}
	return values
}
