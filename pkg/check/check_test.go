package check

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

type fakeCheck struct {
	name   string
	result Result
	err    error
}

func (f fakeCheck) Name() string        { return f.name }
func (f fakeCheck) Category() string    { return "testing" }
func (f fakeCheck) Description() string { return "fake check for tests" }
func (f fakeCheck) Evaluate(_ *dataset.Dataset, _ map[string]any) (Result, error) {
	return f.result, f.err
}

func TestRegistryRoundTrip(t *testing.T) {
	Register(fakeCheck{name: "always_passes"})

	c, ok := Get("always_passes")
	require.True(t, ok)
	assert.Equal(t, "always_passes", c.Name())

	_, ok = Get("never_registered")
	assert.False(t, ok)
}

func TestAllSorted(t *testing.T) {
	Register(fakeCheck{name: "zzz_last"})
	Register(fakeCheck{name: "aaa_first"})

	names := make([]string, 0, Count())
	for _, c := range All() {
		names = append(names, c.Name())
	}
	require.GreaterOrEqual(t, len(names), 2)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestCategoryOf(t *testing.T) {
	Register(fakeCheck{name: "categorized"})

	assert.Equal(t, "testing", CategoryOf("categorized"))
	assert.Equal(t, "custom", CategoryOf("no_such_type"))
}

func TestExecuteSuccess(t *testing.T) {
	Register(fakeCheck{name: "exec_clean", result: Result{Evaluated: 10}})

	out := Execute(nil, Def{Type: "exec_clean"})

	assert.True(t, out.Success)
	assert.Equal(t, 10, out.Evaluated)
	assert.Empty(t, out.Diagnostic)
}

func TestExecuteViolations(t *testing.T) {
	Register(fakeCheck{name: "exec_dirty", result: Result{
		Evaluated: 4, Unexpected: 1, UnexpectedPercent: 25, Sample: []any{"x"},
	}})

	out := Execute(nil, Def{Type: "exec_dirty"})

	// Violations are a successful evaluation that fails the check.
	assert.False(t, out.Success)
	assert.Empty(t, out.Diagnostic)
	assert.Equal(t, []any{"x"}, out.Sample)
}

func TestExecuteUnknownType(t *testing.T) {
	out := Execute(nil, Def{Type: "expect_nothing_in_particular"})

	assert.False(t, out.Success)
	assert.Equal(t, 1, out.Evaluated)
	assert.Equal(t, 1, out.Unexpected)
	assert.Equal(t, 100.0, out.UnexpectedPercent)
	assert.Contains(t, out.Diagnostic, "unknown check type")
	assert.Contains(t, out.Diagnostic, "expect_nothing_in_particular")
}

func TestExecuteEvaluationError(t *testing.T) {
	Register(fakeCheck{name: "exec_broken", err: errors.New("column vanished")})

	out := Execute(nil, Def{Type: "exec_broken"})

	assert.False(t, out.Success)
	assert.Equal(t, 1, out.Evaluated)
	assert.Contains(t, out.Diagnostic, "column vanished")
	assert.Contains(t, out.Diagnostic, "exec_broken")
}

func TestPercentRounding(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(3, 0))
	assert.Equal(t, 33.33, Percent(1, 3))
	assert.Equal(t, 66.67, Percent(2, 3))
	assert.Equal(t, 100.0, Percent(5, 5))
}

func TestAppendSampleCap(t *testing.T) {
	var sample []any
	for i := 0; i < SampleLimit+5; i++ {
		sample = AppendSample(sample, i)
	}
	assert.Len(t, sample, SampleLimit)
	assert.Equal(t, 0, sample[0])
}
