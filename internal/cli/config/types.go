// Package config provides configuration management for the veristat CLI.
//
// Configuration is layered: built-in defaults, then the project's
// veristat.yaml, then VERISTAT_-prefixed environment variables, then
// explicit CLI flags.
package config

import (
	"github.com/veristat-labs/veristat/internal/alert"
	"github.com/veristat-labs/veristat/internal/llm"
)

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot anchors relative paths. Inferred from the config
	// file's location or the working directory.
	ProjectRoot string `koanf:"-"`

	SuitesDir   string `koanf:"suites_dir"`
	ResultsDir  string `koanf:"results_dir"`
	RawDir      string `koanf:"raw_dir"`
	HistoryPath string `koanf:"history_path"`

	Verbose   bool   `koanf:"verbose"`
	LogFormat string `koanf:"log_format"`

	Serve  *ServeConfig  `koanf:"serve"`
	Alerts *alert.Config `koanf:"alerts"`
	LLM    *llm.Config   `koanf:"llm"`
}

// ServeConfig holds configuration for the report server.
type ServeConfig struct {
	Port int `koanf:"port"`
}

// Default configuration values.
const (
	DefaultSuitesDir   = "suites"
	DefaultResultsDir  = "validation_results"
	DefaultRawDir      = "data/raw"
	DefaultHistoryFile = ".veristat/history.db"
	DefaultLogFormat   = "text"
	DefaultServePort   = 8756
)

// GetServeConfig returns the serve config with defaults applied.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return &ServeConfig{Port: DefaultServePort}
	}
	s := c.Serve
	if s.Port == 0 {
		s.Port = DefaultServePort
	}
	return s
}
