package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "veristat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), ""), nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultSuitesDir), cfg.SuitesDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultResultsDir), cfg.ResultsDir)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultRawDir), cfg.RawDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultServePort, cfg.GetServeConfig().Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
suites_dir: rules
results_dir: /var/lib/veristat/results
log_format: json
serve:
  port: 9100
alerts:
  notify_on_success: true
  slack:
    webhook_url: https://hooks.slack.example/T000
llm:
  model: local-model
  base_url: http://localhost:11434/v1
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, "rules"), cfg.SuitesDir)
	// Absolute paths pass through untouched.
	assert.Equal(t, "/var/lib/veristat/results", cfg.ResultsDir)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 9100, cfg.GetServeConfig().Port)

	require.NotNil(t, cfg.Alerts)
	assert.True(t, cfg.Alerts.NotifyOnSuccess)
	require.NotNil(t, cfg.Alerts.Slack)
	assert.Equal(t, "https://hooks.slack.example/T000", cfg.Alerts.Slack.WebhookURL)

	require.NotNil(t, cfg.LLM)
	assert.Equal(t, "local-model", cfg.LLM.Model)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "log_format: text\n")
	t.Setenv("VERISTAT_LOG_FORMAT", "json")
	t.Setenv("VERISTAT_LLM__API_KEY", "env-key")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	require.NotNil(t, cfg.LLM)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	t.Setenv("VERISTAT_LOG_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-format", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--log-format=text", "--verbose"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "veristat.yaml"), nil)
	assert.Error(t, err)
}
