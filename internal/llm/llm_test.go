package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/dataset"
	"github.com/veristat-labs/veristat/pkg/report"
)

func failingReport() *report.Report {
	outcomes := []check.Outcome{
		{
			Def:     check.Def{Type: "expect_column_values_to_be_between", Category: "numeric", Kwargs: map[string]any{"column": "amount", "min_value": 0}},
			Success: false,
			Result:  check.Result{Evaluated: 5, Unexpected: 2, UnexpectedPercent: 40, Sample: []any{1200.0, -10.25}},
		},
		{
			Def:     check.Def{Type: "expect_column_values_to_not_be_null", Category: "nullity", Kwargs: map[string]any{"column": "id"}},
			Success: false,
			Result:  check.Result{Evaluated: 5, Unexpected: 1, UnexpectedPercent: 20, Sample: []any{nil}},
		},
	}
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return report.Aggregate("/data/raw/transactions.csv", "transactions_suite", outcomes, ts)
}

// chatServer fakes an OpenAI-compatible endpoint replying with content.
func chatServer(t *testing.T, content func(userPrompt string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content(req.Messages[1].Content)}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
}

func TestInsights(t *testing.T) {
	srv := chatServer(t, func(string) string {
		return `{"issue": "amounts outside the allowed range", "possible_causes": ["upstream currency bug"],
		         "impact_level": "high", "business_impact": "revenue misreported",
		         "recommended_actions": ["quarantine rows"]}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test"}, nil)
	insights, err := c.Insights(context.Background(), failingReport())
	require.NoError(t, err)

	require.Len(t, insights, 2)
	insight := insights["expect_column_values_to_be_between"]
	assert.Equal(t, "amounts outside the allowed range", insight.Issue)
	assert.Equal(t, "high", insight.ImpactLevel)
	assert.Equal(t, []string{"quarantine rows"}, insight.RecommendedActions)
}

func TestFixes(t *testing.T) {
	srv := chatServer(t, func(string) string {
		return `{"fix_approach": "clamp and quarantine", "rationale": "preserve valid rows",
		         "implementation": "filter rows outside [0, 1000] into a review table",
		         "confidence": "medium", "alternative_approaches": ["reject the whole batch"]}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	fixes, err := c.Fixes(context.Background(), failingReport())
	require.NoError(t, err)

	require.Len(t, fixes, 2)
	fix := fixes["expect_column_values_to_be_between"]
	assert.Equal(t, "clamp and quarantine", fix.FixApproach)
	assert.Equal(t, "medium", fix.Confidence)
}

func TestInsightsAPIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key"}}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "bad"}, nil)
	insights, err := c.Insights(context.Background(), failingReport())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Empty(t, insights)
}

func TestInsightsMalformedReplyIsolated(t *testing.T) {
	calls := 0
	srv := chatServer(t, func(string) string {
		calls++
		if calls == 1 {
			return `not json at all`
		}
		return `{"issue": "fine"}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	insights, err := c.Insights(context.Background(), failingReport())

	// The bad reply is reported, the good one still lands.
	require.Error(t, err)
	assert.Len(t, insights, 1)
}

func TestGenerateSuite(t *testing.T) {
	ds := dataset.New("transactions.csv", []dataset.Column{
		{Name: "transaction_id", Values: []any{"t1", "t2", "t3", "t4"}},
		{Name: "amount", Values: []any{125.99, 45.50, 880.00, 12.99}},
		{Name: "status", Values: []any{"open", "closed", "open", "open"}},
		{Name: "note", Values: []any{nil, "late", nil, nil}},
	})

	s := GenerateSuite(ds, "transactions_suite")
	assert.Equal(t, "transactions_suite", s.Name)

	byType := map[string][]check.Def{}
	for _, def := range s.Checks {
		byType[def.Type] = append(byType[def.Type], def)
	}

	// Table shape first.
	require.Len(t, byType["expect_table_columns_to_match_ordered_list"], 1)
	assert.Equal(t, []string{"transaction_id", "amount", "status", "note"},
		byType["expect_table_columns_to_match_ordered_list"][0].Kwargs["column_list"])
	require.Len(t, byType["expect_table_row_count_to_be_between"], 1)

	// Fully populated columns get not-null checks; "note" does not.
	notNullCols := map[any]bool{}
	for _, def := range byType["expect_column_values_to_not_be_null"] {
		notNullCols[def.Kwargs["column"]] = true
	}
	assert.True(t, notNullCols["transaction_id"])
	assert.True(t, notNullCols["amount"])
	assert.False(t, notNullCols["note"])

	// Numeric columns get observed-range checks.
	require.Len(t, byType["expect_column_values_to_be_between"], 1)
	rangeKwargs := byType["expect_column_values_to_be_between"][0].Kwargs
	assert.Equal(t, "amount", rangeKwargs["column"])
	assert.Equal(t, 12.99, rangeKwargs["min_value"])
	assert.Equal(t, 880.00, rangeKwargs["max_value"])

	// Low-cardinality text columns get set checks with stable ordering.
	require.Len(t, byType["expect_column_values_to_be_in_set"], 1)
	setKwargs := byType["expect_column_values_to_be_in_set"][0].Kwargs
	assert.Equal(t, "status", setKwargs["column"])
	assert.Equal(t, []any{"closed", "open"}, setKwargs["value_set"])

	// All-distinct, fully populated columns get uniqueness checks.
	uniqueCols := map[any]bool{}
	for _, def := range byType["expect_column_values_to_be_unique"] {
		uniqueCols[def.Kwargs["column"]] = true
	}
	assert.True(t, uniqueCols["transaction_id"])
	assert.False(t, uniqueCols["status"])

	// Every generated check carries its registry category.
	for _, def := range s.Checks {
		assert.NotEmpty(t, def.Category, def.Type)
	}
}

func TestGenerateSuiteDeterministic(t *testing.T) {
	ds := dataset.New("d.csv", []dataset.Column{
		{Name: "status", Values: []any{"b", "a", "b", "c"}},
	})

	first, err := json.Marshal(GenerateSuite(ds, "s"))
	require.NoError(t, err)
	second, err := json.Marshal(GenerateSuite(ds, "s"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
