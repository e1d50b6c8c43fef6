package alert

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristat-labs/veristat/pkg/check"
	"github.com/veristat-labs/veristat/pkg/report"
)

func failingReport() *report.Report {
	outcomes := []check.Outcome{
		{
			Def:     check.Def{Type: "expect_column_values_to_be_between", Category: "numeric", Kwargs: map[string]any{"column": "amount"}},
			Success: false,
			Result:  check.Result{Evaluated: 5, Unexpected: 2, UnexpectedPercent: 40, Sample: []any{1200.0, -10.25}},
		},
	}
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return report.Aggregate("/data/raw/transactions.csv", "transactions_suite", outcomes, ts)
}

func passingReport() *report.Report {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return report.Aggregate("/data/raw/transactions.csv", "transactions_suite", []check.Outcome{
		{Def: check.Def{Type: "expect_column_values_to_not_be_null"}, Success: true, Result: check.Result{Evaluated: 5}},
	}, ts)
}

func TestDispatchEmail(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	d := New(Config{
		Email: &EmailConfig{
			Host: "smtp.example.com", Port: 587,
			From: "veristat@example.com", To: []string{"data-team@example.com"},
		},
	}, nil)
	d.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, d.Dispatch(context.Background(), Notification{Report: failingReport()}))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "veristat@example.com", gotFrom)
	assert.Equal(t, []string{"data-team@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Data validation FAILED: transactions")
	assert.Contains(t, string(gotMsg), "expect_column_values_to_be_between")
}

func TestDispatchSlack(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
	}))
	defer srv.Close()

	d := New(Config{Slack: &SlackConfig{WebhookURL: srv.URL}}, nil)
	require.NoError(t, d.Dispatch(context.Background(), Notification{Report: failingReport()}))

	assert.Contains(t, payload["text"], "Data validation FAILED")
	assert.Contains(t, payload["text"], "1 of 1 checks failed")
}

func TestDispatchWebhookCarriesNotification(t *testing.T) {
	var got Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "token-1", r.Header.Get("X-Auth"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
	}))
	defer srv.Close()

	d := New(Config{Webhook: &WebhookConfig{
		URL:     srv.URL,
		Headers: map[string]string{"X-Auth": "token-1"},
	}}, nil)

	n := Notification{
		Report:   failingReport(),
		Insights: map[string]string{"expect_column_values_to_be_between": "out-of-range amounts"},
	}
	require.NoError(t, d.Dispatch(context.Background(), n))

	require.NotNil(t, got.Report)
	assert.Equal(t, "transactions_suite", got.Report.SuiteName)
	assert.Equal(t, "out-of-range amounts", got.Insights["expect_column_values_to_be_between"])
}

func TestDispatchSuppressedOnSuccess(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	d := New(Config{Slack: &SlackConfig{WebhookURL: srv.URL}}, nil)
	require.NoError(t, d.Dispatch(context.Background(), Notification{Report: passingReport()}))
	assert.False(t, called)

	d = New(Config{NotifyOnSuccess: true, Slack: &SlackConfig{WebhookURL: srv.URL}}, nil)
	require.NoError(t, d.Dispatch(context.Background(), Notification{Report: passingReport()}))
	assert.True(t, called)
}

func TestDispatchCollectsChannelErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := New(Config{
		Email: &EmailConfig{Host: "smtp.example.com", Port: 25, From: "a@b", To: []string{"c@d"}},
		Slack: &SlackConfig{WebhookURL: srv.URL},
	}, nil)
	emailSent := false
	d.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		emailSent = true
		return nil
	}

	err := d.Dispatch(context.Background(), Notification{Report: failingReport()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slack")
	assert.True(t, emailSent, "email channel must still deliver when slack fails")
}

func TestDispatchRequiresReport(t *testing.T) {
	d := New(Config{}, nil)
	assert.Error(t, d.Dispatch(context.Background(), Notification{}))
}
