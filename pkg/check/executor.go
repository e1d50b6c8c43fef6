package check

import (
	"github.com/veristat-labs/veristat/pkg/dataset"
)

// Execute runs one check definition against a dataset. It never returns
// an error: a check that cannot be evaluated (unknown type, bad kwargs,
// missing column) becomes a failing outcome carrying the diagnostic, so
// one broken check never aborts the rest of the suite.
func Execute(ds *dataset.Dataset, def Def) Outcome {
	c, ok := Get(def.Type)
	if !ok {
		err := ExecErrorf(def.Type, "unknown check type")
		return failedExecution(def, err.Error())
	}

	result, err := c.Evaluate(ds, def.Kwargs)
	if err != nil {
		if _, ok := err.(*ExecutionError); !ok {
			err = &ExecutionError{CheckType: def.Type, Err: err}
		}
		return failedExecution(def, err.Error())
	}

	return Outcome{
		Def:     def,
		Success: result.Unexpected == 0,
		Result:  result,
	}
}

// failedExecution records a check that could not run as a failing outcome
// with a diagnostic, per the partial-failure isolation policy.
func failedExecution(def Def, diagnostic string) Outcome {
	return Outcome{
		Def:        def,
		Success:    false,
		Result:     Result{Evaluated: 1, Unexpected: 1, UnexpectedPercent: 100},
		Diagnostic: diagnostic,
	}
}
