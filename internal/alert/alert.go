// Package alert notifies delivery channels about validation results.
// Email, Slack and generic webhooks are supported; failures on one
// channel do not stop delivery to the others.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/veristat-labs/veristat/pkg/report"
)

// Config selects and configures delivery channels. A nil channel is
// disabled.
type Config struct {
	// NotifyOnSuccess also delivers alerts for passing runs. Default is
	// failures only.
	NotifyOnSuccess bool           `koanf:"notify_on_success"`
	Email           *EmailConfig   `koanf:"email"`
	Slack           *SlackConfig   `koanf:"slack"`
	Webhook         *WebhookConfig `koanf:"webhook"`
}

// EmailConfig delivers alerts over SMTP.
type EmailConfig struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Username string   `koanf:"username"`
	Password string   `koanf:"password"`
	From     string   `koanf:"from"`
	To       []string `koanf:"to"`
}

// SlackConfig delivers alerts to a Slack incoming webhook.
type SlackConfig struct {
	WebhookURL string `koanf:"webhook_url"`
}

// WebhookConfig posts the full alert payload to an arbitrary endpoint.
type WebhookConfig struct {
	URL     string            `koanf:"url"`
	Headers map[string]string `koanf:"headers"`
}

// Notification is what gets delivered: the report plus optional
// per-check commentary produced upstream.
type Notification struct {
	Report *report.Report `json:"report"`
	// Insights maps check names to explanation summaries.
	Insights map[string]string `json:"insights,omitempty"`
	// Fixes maps check names to suggested-fix summaries.
	Fixes map[string]string `json:"fixes,omitempty"`
}

// Dispatcher fans a notification out to the configured channels.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	// sendMail is smtp.SendMail, injectable for tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a dispatcher from cfg.
func New(cfg Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		cfg:      cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

// Dispatch delivers n to every configured channel. Channel errors are
// collected and joined; a failing channel never blocks the others.
// Passing runs are skipped unless NotifyOnSuccess is set.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	if n.Report == nil {
		return fmt.Errorf("notification has no report")
	}
	if n.Report.Success && !d.cfg.NotifyOnSuccess {
		d.logger.Debug("run succeeded, alert suppressed",
			slog.String("dataset", n.Report.DatasetName))
		return nil
	}

	var errs []error
	if d.cfg.Email != nil {
		if err := d.sendEmail(n); err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}
	if d.cfg.Slack != nil {
		if err := d.sendSlack(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("slack: %w", err))
		}
	}
	if d.cfg.Webhook != nil {
		if err := d.sendWebhook(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("webhook: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) sendEmail(n Notification) error {
	cfg := d.cfg.Email
	if len(cfg.To) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject(n.Report))
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(summary(n))

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return d.sendMail(addr, auth, cfg.From, cfg.To, []byte(msg.String()))
}

func (d *Dispatcher) sendSlack(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(map[string]string{
		"text": subject(n.Report) + "\n" + summary(n),
	})
	if err != nil {
		return err
	}
	return d.post(ctx, d.cfg.Slack.WebhookURL, payload, nil)
}

func (d *Dispatcher) sendWebhook(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return d.post(ctx, d.cfg.Webhook.URL, payload, d.cfg.Webhook.Headers)
}

func (d *Dispatcher) post(ctx context.Context, url string, payload []byte, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func subject(r *report.Report) string {
	if r.Success {
		return fmt.Sprintf("Data validation passed: %s (%s)", r.DatasetName, r.SuiteName)
	}
	return fmt.Sprintf("Data validation FAILED: %s (%s), %d of %d checks failed",
		r.DatasetName, r.SuiteName, r.Statistics.Unsuccessful, r.Statistics.Evaluated)
}

func summary(n Notification) string {
	r := n.Report
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s\nSuite: %s\nRun at: %s\nSuccess rate: %.2f%%\n",
		r.DatasetPath, r.SuiteName, r.Timestamp.Format(time.RFC3339), r.Statistics.SuccessPercent)

	for _, fc := range r.FailedChecks {
		fmt.Fprintf(&b, "\n[%s] %s: %d rows failed (%.2f%%)\n",
			fc.CheckType, fc.CheckName, fc.FailedRows, fc.FailurePercentage)
		if fc.Diagnostic != "" {
			fmt.Fprintf(&b, "  diagnostic: %s\n", fc.Diagnostic)
		}
		if insight, ok := n.Insights[fc.CheckName]; ok {
			fmt.Fprintf(&b, "  insight: %s\n", insight)
		}
		if fix, ok := n.Fixes[fc.CheckName]; ok {
			fmt.Fprintf(&b, "  suggested fix: %s\n", fix)
		}
	}
	return b.String()
}
