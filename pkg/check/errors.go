package check

import "fmt"

// ExecutionError reports that a check could not be evaluated: unknown
// check type, malformed kwargs, or a reference to a column the dataset
// does not have. It is distinct from a check that ran and failed.
type ExecutionError struct {
	CheckType string
	Err       error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %s: %v", e.CheckType, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ExecErrorf builds an ExecutionError from a format string.
func ExecErrorf(checkType, format string, args ...any) *ExecutionError {
	return &ExecutionError{CheckType: checkType, Err: fmt.Errorf(format, args...)}
}
