package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "veristat", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	// Persistent flags shared by every subcommand.
	flags := []string{"config", "suites-dir", "results-dir", "raw-dir", "history-path", "verbose", "log-format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := []string{
		"validate", "suites", "checks", "report", "ingest", "generate",
		"insights", "fixes", "alerts", "serve", "watch", "schedule", "version",
	}
	have := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "subcommand %q should be registered", name)
	}
}
