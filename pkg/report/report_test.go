package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristat-labs/veristat/pkg/check"
)

var runTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func passing(checkType string) check.Outcome {
	return check.Outcome{
		Def:     check.Def{Type: checkType, Kwargs: map[string]any{"column": "id"}},
		Success: true,
		Result:  check.Result{Evaluated: 5},
	}
}

func failing(checkType string, unexpected int, percent float64, sample ...any) check.Outcome {
	return check.Outcome{
		Def:     check.Def{Type: checkType, Category: "numeric", Kwargs: map[string]any{"column": "amount"}},
		Success: false,
		Result: check.Result{
			Evaluated:         5,
			Unexpected:        unexpected,
			UnexpectedPercent: percent,
			Sample:            sample,
		},
	}
}

func TestAggregateStatistics(t *testing.T) {
	outcomes := []check.Outcome{
		passing("expect_column_values_to_not_be_null"),
		failing("expect_column_values_to_be_between", 2, 40.0, 1200.00, -10.25),
		passing("expect_column_values_to_be_unique"),
	}

	r := Aggregate("/data/raw/transactions.csv", "transactions_suite", outcomes, runTime)

	assert.Equal(t, "/data/raw/transactions.csv", r.DatasetPath)
	assert.Equal(t, "transactions", r.DatasetName)
	assert.Equal(t, "transactions_suite", r.SuiteName)
	assert.Equal(t, runTime, r.Timestamp)
	assert.False(t, r.Success)

	assert.Equal(t, 3, r.Statistics.Evaluated)
	assert.Equal(t, 2, r.Statistics.Successful)
	assert.Equal(t, 1, r.Statistics.Unsuccessful)
	assert.Equal(t, 66.67, r.Statistics.SuccessPercent)

	require.Len(t, r.FailedChecks, 1)
	fc := r.FailedChecks[0]
	assert.Equal(t, "expect_column_values_to_be_between", fc.CheckName)
	assert.Equal(t, "numeric", fc.CheckType)
	assert.Equal(t, "transactions", fc.DatasetName)
	assert.Equal(t, 2, fc.FailedRows)
	assert.Equal(t, 40.0, fc.FailurePercentage)
	assert.Equal(t, 2, fc.ActualValue.UnexpectedCount)
	assert.Equal(t, []any{1200.00, -10.25}, fc.ActualValue.UnexpectedValues)
	assert.Equal(t, map[string]any{"column": "amount"}, fc.ExpectedValue)
	assert.Contains(t, fc.CheckImplementation, "expect_column_values_to_be_between")
}

func TestAggregateAllPassing(t *testing.T) {
	r := Aggregate("d.csv", "s", []check.Outcome{passing("a"), passing("b")}, runTime)

	assert.True(t, r.Success)
	assert.Equal(t, 100.0, r.Statistics.SuccessPercent)
	assert.Empty(t, r.FailedChecks)
}

func TestAggregateEmptySuite(t *testing.T) {
	r := Aggregate("d.csv", "empty", nil, runTime)

	assert.True(t, r.Success)
	assert.Equal(t, 0, r.Statistics.Evaluated)
	assert.Equal(t, 0.0, r.Statistics.SuccessPercent)
	assert.Empty(t, r.FailedChecks)
}

func TestAggregatePreservesOrder(t *testing.T) {
	outcomes := []check.Outcome{
		failing("first_failing", 1, 20.0),
		passing("in_between"),
		failing("second_failing", 3, 60.0),
	}

	r := Aggregate("d.csv", "s", outcomes, runTime)

	require.Len(t, r.FailedChecks, 2)
	assert.Equal(t, "first_failing", r.FailedChecks[0].CheckName)
	assert.Equal(t, "second_failing", r.FailedChecks[1].CheckName)
}

func TestAggregateIdempotent(t *testing.T) {
	outcomes := []check.Outcome{
		passing("a"),
		failing("b", 2, 40.0, "x", "y"),
	}

	first, err := json.Marshal(Aggregate("d.csv", "s", outcomes, runTime))
	require.NoError(t, err)
	second, err := json.Marshal(Aggregate("d.csv", "s", outcomes, runTime))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregateCategoryFallback(t *testing.T) {
	out := check.Outcome{
		Def:     check.Def{Type: "totally_unknown", Kwargs: map[string]any{}},
		Success: false,
		Result:  check.Result{Evaluated: 1, Unexpected: 1, UnexpectedPercent: 100},
	}

	r := Aggregate("d.csv", "s", []check.Outcome{out}, runTime)

	require.Len(t, r.FailedChecks, 1)
	assert.Equal(t, "custom", r.FailedChecks[0].CheckType)
}

func TestAggregateDiagnosticCarried(t *testing.T) {
	out := check.Outcome{
		Def:        check.Def{Type: "expect_column_values_to_not_be_null", Kwargs: map[string]any{"column": "gone"}},
		Success:    false,
		Result:     check.Result{Evaluated: 1, Unexpected: 1, UnexpectedPercent: 100},
		Diagnostic: `execute expect_column_values_to_not_be_null: column "gone" not found in dataset`,
	}

	r := Aggregate("d.csv", "s", []check.Outcome{out}, runTime)

	require.Len(t, r.FailedChecks, 1)
	assert.Contains(t, r.FailedChecks[0].Diagnostic, "not found")
}

func TestReportJSONFieldNames(t *testing.T) {
	r := Aggregate("d.csv", "s", []check.Outcome{failing("b", 1, 20.0, "x")}, runTime)

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, field := range []string{"dataset_path", "dataset_name", "suite_name", "timestamp", "success", "statistics", "failed_checks"} {
		assert.Contains(t, decoded, field)
	}

	stats := decoded["statistics"].(map[string]any)
	for _, field := range []string{"evaluated_expectations", "successful_expectations", "unsuccessful_expectations", "success_percent"} {
		assert.Contains(t, stats, field)
	}

	fc := decoded["failed_checks"].([]any)[0].(map[string]any)
	for _, field := range []string{"check_name", "check_type", "failed_rows", "failure_percentage", "expected_value", "actual_value", "check_implementation"} {
		assert.Contains(t, fc, field)
	}
	actual := fc["actual_value"].(map[string]any)
	for _, field := range []string{"unexpected_count", "unexpected_percent", "unexpected_values"} {
		assert.Contains(t, actual, field)
	}
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "transactions", DatasetName("/data/raw/transactions.csv"))
	assert.Equal(t, "events", DatasetName("events.parquet"))
	assert.Equal(t, "plain", DatasetName("plain"))
}
