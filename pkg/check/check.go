// Package check defines the data-quality check contract: the check
// definition as authored in a rule suite, the registry of executable
// check types, and the executor that turns one definition plus one
// dataset into an outcome.
package check

import (
	"math"

	"github.com/veristat-labs/veristat/pkg/dataset"
)

// SampleLimit bounds the number of offending values carried as evidence
// in an outcome. The sample is the first N values in row order, not a
// random draw, so repeated runs over the same data are identical.
const SampleLimit = 20

// Def is one parameterized check as authored in a rule suite.
type Def struct {
	// Type is the registry tag, e.g. "expect_column_values_to_not_be_null".
	Type string `json:"expectation_type" yaml:"expectation_type"`
	// Category groups related checks for reporting. Set at suite-authoring
	// time; when omitted, the loader fills it from the registry metadata,
	// falling back to "custom" for unregistered types.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	// Kwargs are check-type-specific parameters.
	Kwargs map[string]any `json:"kwargs" yaml:"kwargs"`
}

// Check evaluates one check type against a dataset.
type Check interface {
	// Name is the registry tag for this check type.
	Name() string
	// Category is the default reporting category.
	Category() string
	// Description is a one-line human-readable summary.
	Description() string
	// Evaluate applies the check. Errors indicate the check could not be
	// evaluated at all (bad kwargs, missing column); a dataset that merely
	// violates the check is a successful evaluation with unexpected rows.
	Evaluate(ds *dataset.Dataset, kwargs map[string]any) (Result, error)
}

// Result is the raw evidence from evaluating one check.
type Result struct {
	// Evaluated is the number of units inspected: rows for row-level
	// checks, 1 for suite-level checks such as column order.
	Evaluated int
	// Unexpected is the number of units violating the check.
	Unexpected int
	// UnexpectedPercent is 100*Unexpected/Evaluated for row-level checks
	// (0 when no rows were evaluated), rounded to two decimals.
	UnexpectedPercent float64
	// Sample holds at most SampleLimit offending values in row order.
	Sample []any
}

// Outcome is the pass/fail result plus evidence for one check.
type Outcome struct {
	Def     Def
	Success bool
	Result
	// Diagnostic carries the execution-failure message when the check
	// could not be evaluated; empty for checks that ran normally.
	Diagnostic string
}

// RowResult builds a Result for a row-level check over total rows.
func RowResult(total, unexpected int, sample []any) Result {
	return Result{
		Evaluated:         total,
		Unexpected:        unexpected,
		UnexpectedPercent: Percent(unexpected, total),
		Sample:            sample,
	}
}

// SuiteResult builds a Result for a suite-level check (evaluated once).
func SuiteResult(failed bool, sample []any) Result {
	r := Result{Evaluated: 1, Sample: sample}
	if failed {
		r.Unexpected = 1
		r.UnexpectedPercent = 100
	}
	return r
}

// Percent is 100*part/total rounded to two decimals, 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(100 * float64(part) / float64(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AppendSample adds v to the sample unless SampleLimit is reached.
func AppendSample(sample []any, v any) []any {
	if len(sample) >= SampleLimit {
		return sample
	}
	return append(sample, v)
}
