// Package report turns check outcomes into a validation report and
// persists reports under a dated results tree.
package report

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/veristat-labs/veristat/pkg/check"
)

// Report is the persisted result of one validation run. It is immutable
// once built.
type Report struct {
	DatasetPath  string        `json:"dataset_path"`
	DatasetName  string        `json:"dataset_name"`
	SuiteName    string        `json:"suite_name"`
	Timestamp    time.Time     `json:"timestamp"`
	Success      bool          `json:"success"`
	Statistics   Statistics    `json:"statistics"`
	FailedChecks []FailedCheck `json:"failed_checks"`
}

// Statistics summarizes the run across all checks.
type Statistics struct {
	Evaluated      int     `json:"evaluated_expectations"`
	Successful     int     `json:"successful_expectations"`
	Unsuccessful   int     `json:"unsuccessful_expectations"`
	SuccessPercent float64 `json:"success_percent"`
}

// FailedCheck is the normalized record of one failing check, in suite
// order. Passing checks do not appear in the report.
type FailedCheck struct {
	CheckName         string         `json:"check_name"`
	CheckType         string         `json:"check_type"`
	DatasetName       string         `json:"dataset_name"`
	FailedRows        int            `json:"failed_rows"`
	FailurePercentage float64        `json:"failure_percentage"`
	Timestamp         time.Time      `json:"timestamp"`
	ExpectedValue     map[string]any `json:"expected_value"`
	ActualValue       ActualValue    `json:"actual_value"`
	// CheckImplementation is the full check definition serialized to
	// JSON, so a reader can reproduce the check without the suite file.
	CheckImplementation string `json:"check_implementation"`
	DatasetPath         string `json:"dataset_path"`
	// Diagnostic is set when the check could not be evaluated at all.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// ActualValue carries the observed evidence for a failing check.
type ActualValue struct {
	UnexpectedCount   int     `json:"unexpected_count"`
	UnexpectedPercent float64 `json:"unexpected_percent"`
	UnexpectedValues  []any   `json:"unexpected_values"`
}

// Aggregate builds a report from the outcomes of one run. It is a pure
// function: the timestamp is caller-supplied and no I/O happens here, so
// identical inputs always yield identical reports.
func Aggregate(datasetPath, suiteName string, outcomes []check.Outcome, ts time.Time) *Report {
	r := &Report{
		DatasetPath:  datasetPath,
		DatasetName:  DatasetName(datasetPath),
		SuiteName:    suiteName,
		Timestamp:    ts,
		FailedChecks: []FailedCheck{},
	}

	successful := 0
	for _, out := range outcomes {
		if out.Success {
			successful++
			continue
		}
		r.FailedChecks = append(r.FailedChecks, failureRecord(r, out))
	}

	evaluated := len(outcomes)
	r.Statistics = Statistics{
		Evaluated:      evaluated,
		Successful:     successful,
		Unsuccessful:   evaluated - successful,
		SuccessPercent: check.Percent(successful, evaluated),
	}
	r.Success = len(r.FailedChecks) == 0
	return r
}

func failureRecord(r *Report, out check.Outcome) FailedCheck {
	category := out.Def.Category
	if category == "" {
		category = check.CategoryOf(out.Def.Type)
	}

	impl, err := json.Marshal(out.Def)
	if err != nil {
		impl = []byte("{}")
	}

	values := out.Sample
	if values == nil {
		values = []any{}
	}

	return FailedCheck{
		CheckName:         out.Def.Type,
		CheckType:         category,
		DatasetName:       r.DatasetName,
		FailedRows:        out.Unexpected,
		FailurePercentage: out.UnexpectedPercent,
		Timestamp:         r.Timestamp,
		ExpectedValue:     out.Def.Kwargs,
		ActualValue: ActualValue{
			UnexpectedCount:   out.Unexpected,
			UnexpectedPercent: out.UnexpectedPercent,
			UnexpectedValues:  values,
		},
		CheckImplementation: string(impl),
		DatasetPath:         r.DatasetPath,
		Diagnostic:          out.Diagnostic,
	}
}

// DatasetName is the dataset's base name without its extension, the
// identity used for storage keys and report records.
func DatasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
